package authsdk

import (
	"context"
	"net/http"
)

// CreateUser provisions a user. adminToken is the server's ADMIN_TOKEN.
func (c *SDKClient) CreateUser(ctx context.Context, adminToken string, req CreateUserRequest) (*CreateUserResponse, error) {
	resp, err := c.postJSON(ctx, "/admin/users", adminToken, req)
	if err != nil {
		return nil, err
	}

	var out CreateUserResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateApplication registers a client application. The returned secret is
// not retrievable later.
func (c *SDKClient) CreateApplication(ctx context.Context, adminToken string, req CreateApplicationRequest) (*CreateApplicationResponse, error) {
	resp, err := c.postJSON(ctx, "/admin/applications", adminToken, req)
	if err != nil {
		return nil, err
	}

	var out CreateApplicationResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListApplications returns every registered application.
func (c *SDKClient) ListApplications(ctx context.Context, adminToken string) (*ListApplicationsResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/admin/applications", nil, map[string]string{
		"Authorization": "Bearer " + adminToken,
	})
	if err != nil {
		return nil, err
	}

	var out ListApplicationsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
