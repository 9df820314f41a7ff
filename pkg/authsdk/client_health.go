package authsdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotReady is returned by GetReadiness when /readyz answers 503. The
// decoded body is returned alongside it so callers can see which check failed.
var ErrNotReady = errors.New("authsdk: service not ready")

// GetLiveness checks that the auth service process is up.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks the store, the session cache and the id token signer.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, nil)
	if err != nil {
		return nil, err
	}

	expected := http.StatusOK
	if resp.StatusCode == http.StatusServiceUnavailable {
		expected = http.StatusServiceUnavailable
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, expected); err != nil {
		return nil, err
	}
	if expected == http.StatusOK {
		return &health, nil
	}

	var failing []string
	if health.Checks != nil {
		failing = health.Checks.Failing()
	}
	return &health, fmt.Errorf("%w: %s [%s]", ErrNotReady, health.Status, strings.Join(failing, ", "))
}

// Failing lists the checks that did not report "ok". A disabled cache is not
// a failure.
func (h HealthChecks) Failing() []string {
	var out []string
	for _, c := range []struct{ name, status string }{
		{"database", h.Database},
		{"cache", h.Cache},
		{"signer", h.Signer},
	} {
		if c.status != "ok" && c.status != "disabled" {
			out = append(out, c.name)
		}
	}
	return out
}
