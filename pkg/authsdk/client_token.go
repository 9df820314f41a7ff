package authsdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/snazzyfellas/auth/pkg/jwtx"
)

// Login submits credentials to POST /login and reads the authorization code
// from the redirect. A redisplayed login page is reported as
// ErrLoginInvalidCredentials or ErrLoginInvalidConfig.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	data := url.Values{
		"username":     {req.Username},
		"password":     {req.Password},
		"client_id":    {req.ClientID},
		"redirect_uri": {req.RedirectURI},
	}
	if req.State != "" {
		data.Set("state", req.State)
	}

	resp, err := c.postForm(ctx, "/login", data)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		body, _ := io.ReadAll(resp.Body)
		if err := parseErrorResponse(resp, body); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("login: unexpected status %d", resp.StatusCode)
	}

	return ParseLoginRedirect(resp.Header.Get("Location"))
}

// ParseLoginRedirect interprets the Location of a POST /login response.
func ParseLoginRedirect(location string) (*LoginResult, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("failed to parse login redirect: %w", err)
	}

	q := u.Query()
	switch {
	case q.Get("invalid_creds") == "1":
		return nil, ErrLoginInvalidCredentials
	case q.Get("invalid_config") == "1":
		return nil, ErrLoginInvalidConfig
	}

	code := q.Get("code")
	if code == "" {
		return nil, errors.New("login redirect is missing the authorization code")
	}
	return &LoginResult{Code: code, State: q.Get("state")}, nil
}

// Exchange redeems an authorization code at POST /token.
func (c *SDKClient) Exchange(ctx context.Context, code string) (*TokenResponse, error) {
	data := url.Values{
		"grant_type": {"authorization_code"},
		"code":       {code},
	}

	resp, err := c.postForm(ctx, "/token", data)
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokenResp, nil
}

// UserInfo resolves a session key at GET /userinfo.
func (c *SDKClient) UserInfo(ctx context.Context, accessToken string) (*UserInfoResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/userinfo", nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return nil, err
	}

	var info UserInfoResponse
	if err := decodeJSON(resp, &info, http.StatusOK); err != nil {
		return nil, err
	}
	return &info, nil
}

// VerifyIDToken checks an id token issued to clientID. Only clients that
// share the server's HS256 secret can do this.
func VerifyIDToken(idToken string, secret []byte, issuer, clientID string) (*jwtx.Claims, error) {
	return jwtx.NewVerifierHS256(secret, issuer, []string{clientID}).Verify(idToken)
}
