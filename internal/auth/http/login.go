package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/snazzyfellas/auth/internal/auth/service"
	"github.com/snazzyfellas/auth/pkg/authsdk"
	"github.com/snazzyfellas/auth/pkg/httpx"
	"github.com/snazzyfellas/auth/pkg/slogx"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// LoginHandler serves the browser half of the authorization code flow.
type LoginHandler struct {
	AuthorizeService *service.AuthorizeService
}

type loginPage struct {
	ClientID      string
	RedirectURI   string
	State         string
	InvalidCreds  bool
	InvalidConfig bool
}

// HandleAuthPage renders the login form.
//
//	@Summary		Login page
//	@Description	Renders the login form for an application. The invalid_creds and invalid_config flags are set by a failed POST /login.
//	@Tags			OAuth2
//	@Produce		html
//	@Param			client_id		query		string	true	"Client identifier"
//	@Param			redirect_uri	query		string	true	"Registered redirect URI"
//	@Param			state			query		string	false	"Opaque value returned with the code"
//	@Param			invalid_creds	query		string	false	"Set to 1 after a failed login"
//	@Param			invalid_config	query		string	false	"Set to 1 after a client configuration error"
//	@Success		200				{string}	string	"HTML login form"
//	@Router			/auth [get]
func (h *LoginHandler) HandleAuthPage(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())
	q := r.URL.Query()

	prompt := h.AuthorizeService.BeginAuthorization(q.Get("client_id"), q.Get("redirect_uri"), q.Get("state"))
	page := loginPage{
		ClientID:      prompt.ClientID,
		RedirectURI:   prompt.RedirectURI,
		State:         prompt.State,
		InvalidCreds:  q.Get("invalid_creds") == "1",
		InvalidConfig: q.Get("invalid_config") == "1",
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "login.html", page); err != nil {
		log.Error("failed to render login page", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Frame-Options", "DENY")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// HandleLogin checks the submitted credentials and redirects.
//
//	@Summary		Submit credentials
//	@Description	Authenticates the user and redirects to redirect_uri with a single-use code.
//	@Description	On failure redirects back to /auth with invalid_creds=1 (bad username or password) or invalid_config=1 (unknown client, unregistered redirect URI, or a server error).
//	@Tags			OAuth2
//	@Accept			x-www-form-urlencoded
//	@Param			username		formData	string	true	"Username"
//	@Param			password		formData	string	true	"Password"
//	@Param			client_id		formData	string	true	"Client identifier"
//	@Param			redirect_uri	formData	string	true	"Registered redirect URI"
//	@Param			state			formData	string	false	"Opaque value returned with the code"
//	@Success		303				{string}	string	"Redirect to redirect_uri?code=...&state=... or back to /auth"
//	@Router			/login [post]
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	req := service.AuthenticateRequest{
		Username:    r.Form.Get("username"),
		Password:    r.Form.Get("password"),
		ClientID:    strings.TrimSpace(r.Form.Get("client_id")),
		RedirectURI: strings.TrimSpace(r.Form.Get("redirect_uri")),
		State:       r.Form.Get("state"),
	}

	httpx.NoCache(w)

	res, err := h.AuthorizeService.Authenticate(ctx, req)
	if err != nil {
		flag := "invalid_config"
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			flag = "invalid_creds"
		case errors.Is(err, service.ErrInvalidClientConfig):
		default:
			// Server side failures are shown to the user as a configuration
			// problem; the detail stays in the log.
			log.Error("login failed", "error", err)
		}
		http.Redirect(w, r, authPageURL(req, flag), http.StatusSeeOther)
		return
	}

	location, err := buildAuthorizeRedirect(res.RedirectURI, res.Code, res.State)
	if err != nil {
		log.Error("failed to build redirect URL", "error", err)
		http.Redirect(w, r, authPageURL(req, "invalid_config"), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, location, http.StatusSeeOther)
}

// authPageURL sends the user back to the login page with a failure flag.
func authPageURL(req service.AuthenticateRequest, flag string) string {
	var b strings.Builder
	b.WriteString("/auth?client_id=")
	b.WriteString(url.QueryEscape(req.ClientID))
	b.WriteString("&redirect_uri=")
	b.WriteString(url.QueryEscape(req.RedirectURI))
	if req.State != "" {
		b.WriteString("&state=")
		b.WriteString(url.QueryEscape(req.State))
	}
	b.WriteString("&")
	b.WriteString(flag)
	b.WriteString("=1")
	return b.String()
}

// buildAuthorizeRedirect appends code and state to the registered redirect
// URI. Its own query is kept byte for byte.
func buildAuthorizeRedirect(baseURI, code, state string) (string, error) {
	u, err := url.Parse(baseURI)
	if err != nil {
		return "", err
	}

	params := url.Values{"code": {code}}
	if state != "" {
		params.Set("state", state)
	}
	if u.RawQuery == "" {
		u.RawQuery = params.Encode()
	} else {
		u.RawQuery += "&" + params.Encode()
	}

	return u.String(), nil
}
