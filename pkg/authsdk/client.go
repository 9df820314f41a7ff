package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the snazzyfellas authentication service.
//
// Its HTTP client never follows redirects: POST /login answers with a 303
// whose Location carries the authorization code, and the SDK reads it
// instead of chasing it to the client application.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}
