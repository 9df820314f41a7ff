package http

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/snazzyfellas/auth/internal/auth/service"
	"github.com/snazzyfellas/auth/pkg/authsdk"
	"github.com/snazzyfellas/auth/pkg/httpx"
	"github.com/snazzyfellas/auth/pkg/slogx"
)

const maxAdminBody = 64 << 10

// AdminHandler provisions users and applications.
type AdminHandler struct {
	AdminService *service.AdminService
}

// HandleCreateUser handles POST /admin/users
//
//	@Summary		Create user
//	@Description	Registers a user. The password is stored as an Argon2id hash.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		AdminAuth
//	@Param			request	body		authsdk.CreateUserRequest	true	"Username and password"
//	@Success		201		{object}	authsdk.CreateUserResponse
//	@Failure		400		{object}	authsdk.ErrorResponse
//	@Failure		401		{object}	authsdk.ErrorResponse
//	@Failure		409		{object}	authsdk.ErrorResponse	"username_taken"
//	@Failure		500		{object}	authsdk.ErrorResponse
//	@Router			/admin/users [post]
func (h *AdminHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.CreateUserRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		authsdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	u, err := h.AdminService.CreateUser(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			validationError(err).WriteError(w)
		case errors.Is(err, service.ErrUsernameTaken):
			authsdk.ErrUsernameTaken.WriteError(w)
		default:
			log.Error("failed to create user", "error", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.CreateUserResponse{ID: u.ID, Username: u.Username})
}

// HandleCreateApplication handles POST /admin/applications
//
//	@Summary		Create application
//	@Description	Registers a client application. The client secret is only returned in this response.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		AdminAuth
//	@Param			request	body		authsdk.CreateApplicationRequest	true	"Name and redirect URIs"
//	@Success		201		{object}	authsdk.CreateApplicationResponse
//	@Failure		400		{object}	authsdk.ErrorResponse
//	@Failure		401		{object}	authsdk.ErrorResponse
//	@Failure		500		{object}	authsdk.ErrorResponse
//	@Router			/admin/applications [post]
func (h *AdminHandler) HandleCreateApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.CreateApplicationRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		authsdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	created, err := h.AdminService.CreateApplication(ctx, req.Name, req.RedirectURIs)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			validationError(err).WriteError(w)
			return
		}
		log.Error("failed to create application", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.CreateApplicationResponse{
		ClientID:     created.Application.ID,
		ClientSecret: created.ClientSecret,
		Name:         created.Application.Name,
		RedirectURIs: created.Application.RedirectURIs,
	})
}

// HandleListApplications handles GET /admin/applications
//
//	@Summary		List applications
//	@Tags			Admin
//	@Produce		json
//	@Security		AdminAuth
//	@Success		200	{object}	authsdk.ListApplicationsResponse
//	@Failure		401	{object}	authsdk.ErrorResponse
//	@Failure		500	{object}	authsdk.ErrorResponse
//	@Router			/admin/applications [get]
func (h *AdminHandler) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	apps, err := h.AdminService.ListApplications(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list applications", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	resp := authsdk.ListApplicationsResponse{Applications: make([]authsdk.ApplicationInfo, 0, len(apps))}
	for _, a := range apps {
		resp.Applications = append(resp.Applications, authsdk.ApplicationInfo{
			ClientID:     a.ID,
			Name:         a.Name,
			RedirectURIs: a.RedirectURIs,
			CreatedAt:    a.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// RequireAdminToken rejects requests whose bearer token is not the
// configured admin token. Both sides are hashed first so the comparison
// takes the same time whatever their lengths.
func RequireAdminToken(token string) httpx.Middleware {
	want := sha256.Sum256([]byte(token))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, err := httpx.BearerToken(r)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				authsdk.ErrInvalidToken.WriteError(w)
				return
			}

			sum := sha256.Sum256([]byte(got))
			if token == "" || subtle.ConstantTimeCompare(sum[:], want[:]) != 1 {
				slogx.FromContext(r.Context()).Warn("admin: rejected token")
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				authsdk.ErrInvalidToken.WriteError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAdminBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// validationError exposes the validation message, which never carries
// internal detail.
func validationError(err error) *authsdk.OAuth2Error {
	desc := strings.TrimPrefix(err.Error(), service.ErrInvalidRequest.Error()+": ")
	return authsdk.NewOAuth2Error(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, desc)
}
