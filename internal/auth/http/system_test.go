package http_test

import (
	"net/http"
	"testing"

	"github.com/snazzyfellas/auth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestStatusPage(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "<h1>Auth server online</h1>", rec.Body.String())

	require.Equal(t, http.StatusNotFound, s.get(t, "/nope").Code)
}

func TestLivez(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.get(t, "/livez")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[authsdk.HealthResponse](t, rec)
	require.Equal(t, "ok", body.Status)
	require.Equal(t, "test", body.Version)
	require.Nil(t, body.Checks)
}

func TestReadyz(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.get(t, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[authsdk.HealthResponse](t, rec)
	require.Equal(t, "ok", body.Status)
	require.Equal(t, &authsdk.HealthChecks{Database: "ok", Cache: "disabled", Signer: "ok"}, body.Checks)
}

func TestReadyz_ClosedStoreIsDegraded(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	require.NoError(t, s.store.Close())

	rec := s.get(t, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[authsdk.HealthResponse](t, rec)
	require.Equal(t, "degraded", body.Status)
	require.Equal(t, "error", body.Checks.Database)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.login(t)

	rec := s.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "auth_grants_issued_total 1")
}
