package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/snazzyfellas/auth/internal/auth/service"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{name: "empty username", username: " ", password: "long-enough", want: service.ErrInvalidRequest},
		{name: "whitespace in username", username: "bob smith", password: "long-enough", want: service.ErrInvalidRequest},
		{name: "username too long", username: strings.Repeat("b", 65), password: "long-enough", want: service.ErrInvalidRequest},
		{name: "short password", username: "bob", password: "short", want: service.ErrInvalidRequest},
		{name: "taken", username: "alice", password: "another-password", want: service.ErrUsernameTaken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.admin.CreateUser(ctx, tc.username, tc.password)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateUser_HashesPassword(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	u, err := f.admin.CreateUser(context.Background(), "bob", "hunter2-hunter2")
	require.NoError(t, err)
	require.NotContains(t, u.PasswordHash, "hunter2")
	require.True(t, strings.HasPrefix(u.PasswordHash, "$argon2id$"))
	require.True(t, testHasher.Verify(u.PasswordHash, "hunter2-hunter2"))

	stored, err := f.store.Users().GetUserByUsername(context.Background(), "bob")
	require.NoError(t, err)
	require.Equal(t, u.ID, stored.ID)
}

func TestCreateApplication(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.admin.CreateApplication(ctx, "Dashboard", []string{
		"https://dash.example/cb", " https://dash.example/cb ", "http://localhost:8080/cb",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ClientSecret)
	require.Equal(t, []string{"https://dash.example/cb", "http://localhost:8080/cb"}, created.Application.RedirectURIs)
	require.True(t, testHasher.Verify(created.Application.SecretHash, created.ClientSecret))

	_, ok := service.ParseClientID(created.Application.ID)
	require.True(t, ok, "generated ids are valid client ids")

	apps, err := f.admin.ListApplications(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 2)

	// The new application can be used for a login straight away.
	_, err = f.authz.Authenticate(ctx, service.AuthenticateRequest{
		Username: "alice", Password: "correct-horse",
		ClientID: created.Application.ID, RedirectURI: "http://localhost:8080/cb",
	})
	require.NoError(t, err)
}

func TestCreateApplication_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name string
		app  string
		uris []string
	}{
		{name: "no name", app: "", uris: []string{"https://a.example/cb"}},
		{name: "no uris", app: "App"},
		{name: "relative uri", app: "App", uris: []string{"/cb"}},
		{name: "fragment", app: "App", uris: []string{"https://a.example/cb#frag"}},
		{name: "wrong scheme", app: "App", uris: []string{"javascript:alert(1)"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.admin.CreateApplication(context.Background(), tc.app, tc.uris)
			require.ErrorIs(t, err, service.ErrInvalidRequest)
		})
	}
}
