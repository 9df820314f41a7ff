package authsdk

import "time"

// ErrorResponse represents a standard OAuth2 error response per RFC 6749.
// Client code should use the OAuth2Error type from errors.go instead.
type ErrorResponse struct {
	// Error is the OAuth2 error code (e.g., "invalid_request", "invalid_grant")
	Error string `json:"error" example:"invalid_grant"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description" example:"the authorization code is invalid, expired or already used"`
}

// ============================================================================
// Token Types
// ============================================================================

// TokenResponse is the body of a successful POST /token.
type TokenResponse struct {
	// AccessToken is the opaque bearer session key
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type" example:"Bearer"`

	// IDToken is an HS256 JWT asserting the user's identity to the client
	IDToken string `json:"id_token"`

	// ExpiresIn is the session lifetime in minutes
	ExpiresIn int64 `json:"expires_in" example:"43200"`
}

// UserInfoResponse is the body of GET /userinfo.
type UserInfoResponse struct {
	// Sub is the user id the session was issued for
	Sub string `json:"sub" example:"01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"`
}

// LoginRequest holds the fields submitted to POST /login.
type LoginRequest struct {
	Username    string
	Password    string
	ClientID    string
	RedirectURI string
	State       string
}

// LoginResult is parsed from the success redirect of POST /login.
type LoginResult struct {
	Code  string
	State string
}

// ============================================================================
// Admin Types
// ============================================================================

// CreateUserRequest is the body of POST /admin/users.
type CreateUserRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"correct-horse"`
}

// CreateUserResponse is returned after a user was created.
type CreateUserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// CreateApplicationRequest is the body of POST /admin/applications.
type CreateApplicationRequest struct {
	Name         string   `json:"name" example:"Example App"`
	RedirectURIs []string `json:"redirect_uris" example:"https://app.example/cb"`
}

// CreateApplicationResponse carries the client secret, which is only
// returned once.
type CreateApplicationResponse struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Name         string   `json:"name"`
	RedirectURIs []string `json:"redirect_uris"`
}

// ApplicationInfo describes a registered application.
type ApplicationInfo struct {
	ClientID     string    `json:"client_id"`
	Name         string    `json:"name"`
	RedirectURIs []string  `json:"redirect_uris"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListApplicationsResponse is the body of GET /admin/applications.
type ListApplicationsResponse struct {
	Applications []ApplicationInfo `json:"applications"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Cache indicates the session cache status ("disabled" without redis)
	Cache string `json:"cache"`

	// Signer indicates the id token signing capability status
	Signer string `json:"signer"`
}
