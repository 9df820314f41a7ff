package http_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/snazzyfellas/auth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func (s *testServer) accessToken(t *testing.T) string {
	t.Helper()

	rec := s.postForm(t, "/token", url.Values{"code": {s.login(t)}})
	require.Equal(t, http.StatusOK, rec.Code)
	return decode[authsdk.TokenResponse](t, rec).AccessToken
}

func TestUserInfo(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	key := s.accessToken(t)

	rec := s.get(t, "/userinfo", "Authorization", "Bearer "+key)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"sub":"`+s.alice.ID+`"}`, rec.Body.String())
}

func TestUserInfo_Errors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{name: "missing header", status: http.StatusBadRequest, code: "invalid_request"},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", status: http.StatusBadRequest, code: "invalid_request"},
		{name: "empty bearer", header: "Bearer ", status: http.StatusBadRequest, code: "invalid_request"},
		{name: "garbage", header: "Bearer garbage", status: http.StatusUnauthorized, code: "invalid_token"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var headers []string
			if tc.header != "" {
				headers = []string{"Authorization", tc.header}
			}
			rec := s.get(t, "/userinfo", headers...)
			require.Equal(t, tc.status, rec.Code)
			require.Equal(t, tc.code, decode[authsdk.ErrorResponse](t, rec).Error)
		})
	}
}

func TestUserInfo_InvalidSessionChallenges(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.get(t, "/userinfo", "Authorization", "Bearer garbage")
	require.Equal(t, `Bearer error="invalid_token"`, rec.Header().Get("WWW-Authenticate"))
}
