package http

import (
	"errors"
	"net/http"

	"github.com/snazzyfellas/auth/internal/auth/service"
	"github.com/snazzyfellas/auth/pkg/authsdk"
	"github.com/snazzyfellas/auth/pkg/httpx"
	"github.com/snazzyfellas/auth/pkg/slogx"
)

type UserInfoHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP handles the UserInfo endpoint.
//
//	@Summary		Get user information
//	@Description	Resolves the bearer session key and returns the user it was issued for.
//	@Tags			OAuth2
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserInfoResponse	"sub"
//	@Failure		400	{object}	authsdk.ErrorResponse		"Missing or malformed Authorization header"
//	@Failure		401	{object}	authsdk.ErrorResponse		"Unknown or expired session"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/userinfo [get]
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	bearer, err := httpx.BearerToken(r)
	if err != nil {
		authsdk.ErrMalformedAuthorization.WriteError(w)
		return
	}

	id, err := h.SessionService.Resolve(ctx, bearer)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
			authsdk.ErrInvalidToken.WriteError(w)
			return
		}
		log.Error("failed to resolve session", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserInfoResponse{Sub: id.Subject})
}
