package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/snazzyfellas/auth/internal/auth/domain"
	"github.com/snazzyfellas/auth/internal/auth/service"
	"github.com/snazzyfellas/auth/internal/auth/store"
	"github.com/snazzyfellas/auth/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestAuthPage_RendersForm(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.get(t, "/auth?client_id=client-42&redirect_uri=https%3A%2F%2Fapp.example%2Fcb&state=xyz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	body := rec.Body.String()
	require.Contains(t, body, `action="/login"`)
	require.Contains(t, body, `name="client_id" value="client-42"`)
	require.Contains(t, body, `name="redirect_uri" value="https://app.example/cb"`)
	require.Contains(t, body, `name="state" value="xyz"`)
	require.NotContains(t, body, "Invalid username or password")
	require.NotContains(t, body, "not configured correctly")
}

func TestAuthPage_Flags(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.get(t, "/auth?client_id=client-42&redirect_uri=x&invalid_creds=1")
	require.Contains(t, rec.Body.String(), "Invalid username or password")

	rec = s.get(t, "/auth?client_id=client-42&redirect_uri=x&invalid_config=1")
	require.Contains(t, rec.Body.String(), "not configured correctly")
}

func TestAuthPage_EscapesParameters(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.get(t, "/auth?client_id=%22%3E%3Cscript%3Ealert(1)%3C%2Fscript%3E&redirect_uri=x")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
}

func TestLogin_RedirectsWithCode(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	form := loginForm("correct-horse", testRedirect)
	form.Set("state", "a b&c")
	rec := s.postForm(t, "/login", form)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "https", loc.Scheme)
	require.Equal(t, "app.example", loc.Host)
	require.Equal(t, "/cb", loc.Path)
	require.Len(t, loc.Query().Get("code"), service.CodeLength)
	require.Equal(t, "a b&c", loc.Query().Get("state"))
}

func TestLogin_KeepsRegisteredRedirectQuery(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	const registered = "https://app.example/cb?z=1&a=2&flag"
	require.NoError(t, s.store.Applications().CreateApplication(context.Background(), domain.Application{
		ID:           "client-query",
		Name:         "Query App",
		SecretHash:   "$argon2id$unused",
		RedirectURIs: []string{registered},
		CreatedAt:    time.Now().UTC(),
	}))

	form := url.Values{
		"username":     {"alice"},
		"password":     {"correct-horse"},
		"client_id":    {"client-query"},
		"redirect_uri": {registered},
		"state":        {"x y"},
	}
	rec := s.postForm(t, "/login", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	loc := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, registered+"&code="), loc)
	require.True(t, strings.HasSuffix(loc, "&state=x+y"), loc)

	u, err := url.Parse(loc)
	require.NoError(t, err)
	require.Len(t, u.Query().Get("code"), service.CodeLength)
}

func TestLogin_AcceptsQueryParameters(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	target := "/login?" + loginForm("correct-horse", testRedirect).Encode()
	rec := s.do(t, httptest.NewRequest(http.MethodPost, target, nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), testRedirect+"?code="))
}

func TestLogin_Failures(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	tests := []struct {
		name     string
		form     url.Values
		location string
	}{
		{
			name:     "wrong password",
			form:     loginForm("wrong", testRedirect),
			location: "/auth?client_id=client-42&redirect_uri=https%3A%2F%2Fapp.example%2Fcb&invalid_creds=1",
		},
		{
			name: "unknown user",
			form: url.Values{
				"username": {"mallory"}, "password": {"correct-horse"},
				"client_id": {testClientID}, "redirect_uri": {testRedirect},
			},
			location: "/auth?client_id=client-42&redirect_uri=https%3A%2F%2Fapp.example%2Fcb&invalid_creds=1",
		},
		{
			name:     "evil redirect",
			form:     loginForm("correct-horse", "https://evil.example"),
			location: "/auth?client_id=client-42&redirect_uri=https%3A%2F%2Fevil.example&invalid_config=1",
		},
		{
			name: "unknown client keeps state",
			form: url.Values{
				"username": {"alice"}, "password": {"correct-horse"},
				"client_id": {"client-43"}, "redirect_uri": {testRedirect}, "state": {"s&1"},
			},
			location: "/auth?client_id=client-43&redirect_uri=https%3A%2F%2Fapp.example%2Fcb&state=s%261&invalid_config=1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.postForm(t, "/login", tc.form)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			require.Equal(t, tc.location, rec.Header().Get("Location"))
		})
	}
}

// failingGrantsStore fails every grant write and every transaction.
type failingGrantsStore struct {
	store.Store
}

func (s failingGrantsStore) Grants() store.Grants { return failingGrants{} }

func (s failingGrantsStore) WithTx(context.Context, func(store.Tx) error) error {
	return errors.New("disk I/O error")
}

type failingGrants struct{}

func (failingGrants) CreateGrant(context.Context, domain.Grant) error {
	return errors.New("disk I/O error")
}

func (failingGrants) ConsumeGrant(context.Context, string) (domain.Grant, error) {
	return domain.Grant{}, errors.New("disk I/O error")
}

func (failingGrants) DeleteExpiredGrants(context.Context, time.Time) (int64, error) {
	return 0, errors.New("disk I/O error")
}

func TestLogin_StoreFailureRedirectsAsInvalidConfig(t *testing.T) {
	t.Parallel()
	s := newTestServerWithStore(t, failingGrantsStore{Store: newSQLiteStore(t)})

	rec := s.postForm(t, "/login", loginForm("correct-horse", testRedirect))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth?client_id=client-42&redirect_uri=https%3A%2F%2Fapp.example%2Fcb&invalid_config=1", rec.Header().Get("Location"))
	require.NotContains(t, rec.Body.String(), "disk I/O")
}

func TestLogin_RateLimitedByUsername(t *testing.T) {
	t.Parallel()

	limits := generousLimits
	limits.Strict = httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	s := newTestServer(t, withLimits(limits))

	for range 2 {
		require.Equal(t, http.StatusSeeOther, s.postForm(t, "/login", loginForm("wrong", testRedirect)).Code)
	}

	rec := s.postForm(t, "/login", loginForm("correct-horse", testRedirect))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
}
