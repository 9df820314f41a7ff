package http_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/snazzyfellas/auth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestAdmin_DisabledWithoutService(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.postJSON(t, "/admin/users", testAdminToken, authsdk.CreateUserRequest{Username: "bob", Password: "long-enough"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_RequiresToken(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, withAdmin)

	for name, bearer := range map[string]string{"missing": "", "wrong": "not-the-token"} {
		t.Run(name, func(t *testing.T) {
			var headers []string
			if bearer != "" {
				headers = []string{"Authorization", "Bearer " + bearer}
			}
			rec := s.get(t, "/admin/applications", headers...)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			require.Equal(t, authsdk.ErrorCodeInvalidToken, decode[authsdk.ErrorResponse](t, rec).Error)
		})
	}
}

func TestAdmin_CreateUser(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, withAdmin)

	rec := s.postJSON(t, "/admin/users", testAdminToken, authsdk.CreateUserRequest{Username: "bob", Password: "hunter2hunter2"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[authsdk.CreateUserResponse](t, rec)
	require.Equal(t, "bob", created.Username)
	require.NotEmpty(t, created.ID)

	rec = s.postJSON(t, "/admin/users", testAdminToken, authsdk.CreateUserRequest{Username: "bob", Password: "hunter2hunter2"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, authsdk.ErrorCodeUsernameTaken, decode[authsdk.ErrorResponse](t, rec).Error)

	rec = s.postJSON(t, "/admin/users", testAdminToken, authsdk.CreateUserRequest{Username: "carol", Password: "short"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[authsdk.ErrorResponse](t, rec)
	require.Equal(t, authsdk.ErrorCodeInvalidRequest, body.Error)
	require.Contains(t, body.ErrorDescription, "password")
}

func TestAdmin_CreateUserRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, withAdmin)

	rec := s.postJSON(t, "/admin/users", testAdminToken, map[string]string{
		"username": "dave", "password": "long-enough", "role": "admin",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdmin_ApplicationLifecycle(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, withAdmin)

	rec := s.postJSON(t, "/admin/applications", testAdminToken, authsdk.CreateApplicationRequest{
		Name:         "Second App",
		RedirectURIs: []string{"https://second.example/callback"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	app := decode[authsdk.CreateApplicationResponse](t, rec)
	require.NotEmpty(t, app.ClientID)
	require.NotEmpty(t, app.ClientSecret)

	// The new application can run the flow against its own redirect.
	rec = s.postForm(t, "/login", url.Values{
		"username":     {"alice"},
		"password":     {"correct-horse"},
		"client_id":    {app.ClientID},
		"redirect_uri": {"https://second.example/callback"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "https://second.example/callback?code="))

	rec = s.get(t, "/admin/applications", "Authorization", "Bearer "+testAdminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[authsdk.ListApplicationsResponse](t, rec)
	require.Len(t, list.Applications, 2)

	ids := []string{list.Applications[0].ClientID, list.Applications[1].ClientID}
	require.ElementsMatch(t, []string{testClientID, app.ClientID}, ids)
	require.NotContains(t, rec.Body.String(), app.ClientSecret)
}

func TestAdmin_CreateApplicationValidation(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, withAdmin)

	tests := map[string]authsdk.CreateApplicationRequest{
		"no name":           {RedirectURIs: []string{"https://x.example/cb"}},
		"no redirect":       {Name: "X"},
		"relative redirect": {Name: "X", RedirectURIs: []string{"/cb"}},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			rec := s.postJSON(t, "/admin/applications", testAdminToken, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, authsdk.ErrorCodeInvalidRequest, decode[authsdk.ErrorResponse](t, rec).Error)
		})
	}
}
