package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/snazzyfellas/auth/internal/auth/service"
	"github.com/snazzyfellas/auth/pkg/authsdk"
	"github.com/snazzyfellas/auth/pkg/httpx"
	"github.com/snazzyfellas/auth/pkg/slogx"
)

// TokenHandler serves POST /token.
// Parameters are read from the form body or the query string.
type TokenHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Token Endpoint
//	@Description	Redeems a single-use authorization code for a bearer session key and an HS256 id token.
//	@Description	expires_in is the session lifetime in minutes.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			code		formData	string					true	"Authorization code"
//	@Param			grant_type	formData	string					false	"Must be authorization_code when present"	Enums(authorization_code)
//	@Success		200			{object}	authsdk.TokenResponse	"access_token, token_type, id_token, expires_in"
//	@Failure		400			{object}	authsdk.ErrorResponse	"invalid_request, invalid_grant or unsupported_grant_type"
//	@Failure		500			{object}	authsdk.ErrorResponse	"server_error"
//	@Header			200			{string}	Cache-Control			"no-store"
//	@Header			200			{string}	Pragma					"no-cache"
//	@Router			/token [post]
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Ensure the right content-type
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		authsdk.ErrInvalidContentType.WriteError(w)
		return
	}

	// 2. Parse the form body
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	// 3. Only the authorization code grant exists
	if gt := r.Form.Get("grant_type"); gt != "" && gt != "authorization_code" {
		authsdk.ErrUnsupportedGrantType.WriteError(w)
		return
	}

	code := strings.TrimSpace(r.Form.Get("code"))
	if code == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.TokenService.Exchange(ctx, code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGrant):
			authsdk.ErrInvalidGrant.WriteError(w)
		default:
			log.Error("authorization_code grant failed", "error", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		IDToken:     res.IDToken,
		ExpiresIn:   res.ExpiresIn,
	})
}
