package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/snazzyfellas/auth/internal/auth/service"
	"github.com/snazzyfellas/auth/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestBeginAuthorization_EchoesParameters(t *testing.T) {
	t.Parallel()

	svc := &service.AuthorizeService{}
	p := svc.BeginAuthorization(" client-42 ", "https://app.example/cb", "xyz")

	require.Equal(t, service.AuthPrompt{ClientID: "client-42", RedirectURI: "https://app.example/cb", State: "xyz"}, p)
}

func TestAuthenticate_IssuesCode(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res, err := f.authz.Authenticate(context.Background(), service.AuthenticateRequest{
		Username: "alice", Password: "correct-horse", ClientID: testClientID, RedirectURI: testRedirect, State: "s1",
	})
	require.NoError(t, err)

	require.Len(t, res.Code, service.CodeLength)
	for _, c := range res.Code {
		require.True(t, strings.ContainsRune(cryptox.Alphanumeric, c), "unexpected rune %q", c)
	}
	require.Equal(t, testRedirect, res.RedirectURI)
	require.Equal(t, "s1", res.State)
	require.Equal(t, f.clock.Stored().Add(5*time.Minute), res.ExpiresAt)
	require.EqualValues(t, 1, countGrants(t, f.store))
	require.InDelta(t, 1, testutil.ToFloat64(f.metrics.GrantsIssued), 0)
}

func TestAuthenticate_CodesAreUnique(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	require.NotEqual(t, f.login(t), f.login(t))
}

func TestAuthenticate_Failures(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name string
		req  service.AuthenticateRequest
		want error
	}{
		{
			name: "unknown user",
			req:  service.AuthenticateRequest{Username: "mallory", Password: "correct-horse", ClientID: testClientID, RedirectURI: testRedirect},
			want: service.ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			req:  service.AuthenticateRequest{Username: "alice", Password: "correct-horsf", ClientID: testClientID, RedirectURI: testRedirect},
			want: service.ErrInvalidCredentials,
		},
		{
			name: "empty password",
			req:  service.AuthenticateRequest{Username: "alice", ClientID: testClientID, RedirectURI: testRedirect},
			want: service.ErrInvalidCredentials,
		},
		{
			name: "malformed client id",
			req:  service.AuthenticateRequest{Username: "alice", Password: "correct-horse", ClientID: "client 42/../", RedirectURI: testRedirect},
			want: service.ErrInvalidClientConfig,
		},
		{
			name: "unknown client",
			req:  service.AuthenticateRequest{Username: "alice", Password: "correct-horse", ClientID: "client-43", RedirectURI: testRedirect},
			want: service.ErrInvalidClientConfig,
		},
		{
			name: "redirect not registered",
			req:  service.AuthenticateRequest{Username: "alice", Password: "correct-horse", ClientID: testClientID, RedirectURI: "https://evil.example"},
			want: service.ErrInvalidClientConfig,
		},
		{
			name: "redirect differs by trailing slash",
			req:  service.AuthenticateRequest{Username: "alice", Password: "correct-horse", ClientID: testClientID, RedirectURI: testRedirect + "/"},
			want: service.ErrInvalidClientConfig,
		},
		{
			// Credentials are checked first, so a bad password is reported
			// as such even when the client is also wrong.
			name: "bad password and bad client",
			req:  service.AuthenticateRequest{Username: "alice", Password: "nope", ClientID: "client-43", RedirectURI: "https://evil.example"},
			want: service.ErrInvalidCredentials,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.authz.Authenticate(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.want)
		})
	}

	require.Zero(t, countGrants(t, f.store))
}

// A correct login against a redirect outside the allow-list is a client
// configuration error, never a credential error, and stores nothing.
func TestAuthenticate_EvilRedirectPersistsNoGrant(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.authz.Authenticate(context.Background(), service.AuthenticateRequest{
		Username: "alice", Password: "correct-horse", ClientID: testClientID, RedirectURI: "https://evil.example",
	})
	require.ErrorIs(t, err, service.ErrInvalidClientConfig)
	require.NotErrorIs(t, err, service.ErrInvalidCredentials)
	require.Zero(t, countGrants(t, f.store))
	require.InDelta(t, 1, testutil.ToFloat64(f.metrics.LoginFailures.WithLabelValues("invalid_config")), 0)
}

func TestParseClientID(t *testing.T) {
	t.Parallel()

	valid := []string{"client-42", " client-42 ", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", "a.b_c~d"}
	for _, s := range valid {
		id, ok := service.ParseClientID(s)
		require.True(t, ok, s)
		require.Equal(t, strings.TrimSpace(s), id)
	}

	invalid := []string{"", "  ", "client 42", "client/42", "cl%69ent", strings.Repeat("a", 129)}
	for _, s := range invalid {
		_, ok := service.ParseClientID(s)
		require.False(t, ok, s)
	}
}
