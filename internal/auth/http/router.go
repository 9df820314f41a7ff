package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/snazzyfellas/auth/internal/auth/cache"
	"github.com/snazzyfellas/auth/internal/auth/service"
	"github.com/snazzyfellas/auth/internal/auth/store"
	"github.com/snazzyfellas/auth/pkg/httpx"
	"github.com/snazzyfellas/auth/pkg/jwtx"
	"github.com/snazzyfellas/auth/pkg/otelx"
	"github.com/snazzyfellas/auth/pkg/slogx"

	_ "github.com/snazzyfellas/auth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

var errNoSigner = errors.New("no id token signer configured")

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       httpx.RateLimits

	store            store.Store
	AuthorizeService *service.AuthorizeService
	TokenService     *service.TokenService
	SessionService   *service.SessionService

	// Optional: the admin endpoints are only registered when AdminService is
	// set, and are guarded by AdminToken.
	AdminService *service.AdminService
	AdminToken   string

	// Optional readiness and metrics dependencies.
	Cache    cache.SessionCache
	Signer   jwtx.Signer
	Gatherer prometheus.Gatherer
}

func NewRouter(
	buildVersion string,
	st store.Store,
	limits httpx.RateLimits,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		limits:       limits,
		logger:       logger,
	}

	// Tracing runs outermost so request logs carry the trace id.
	r.middlewares = []httpx.Middleware{
		otelx.HTTPMiddleware("github.com/snazzyfellas/auth/internal/auth/http"),
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOAuth2()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Snazzyfellas Authentication Service API
//	@version		0.1.0
//	@description	Authorization code flow for first-party applications. Users sign in at /auth, applications
//	@description	redeem the resulting code at /token for an opaque bearer session key and an HS256 id token,
//	@description	and resolve the session key at /userinfo.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session key from /token. Format: "Bearer {access_token}".
//
//	@securityDefinitions.apikey	AdminAuth
//	@in							header
//	@name						Authorization
//	@description				ADMIN_TOKEN. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers h under pattern and names its trace span after the pattern.
func (r *Router) handle(pattern string, h http.Handler, mws ...httpx.Middleware) {
	r.Mux.Handle(pattern, otelx.WithRoute(pattern, httpx.Chain(h, mws...)))
}

func (r *Router) registerOAuth2() {
	login := &LoginHandler{AuthorizeService: r.AuthorizeService}

	// GET /auth - lenient rate limit (only renders the form)
	r.handle("GET /auth", http.HandlerFunc(login.HandleAuthPage),
		httpx.RateLimitByIP(r.limits.Lenient, r.limits.TrustedProxies...),
	)

	// POST /login - strict rate limit by IP + username to slow brute force
	r.handle("POST /login", http.HandlerFunc(login.HandleLogin),
		httpx.RateLimitByIPAndFormField(r.limits.Strict, "username", r.limits.TrustedProxies...),
	)

	// POST /token - strict rate limit by IP
	r.handle("POST /token", &TokenHandler{TokenService: r.TokenService},
		httpx.RateLimitByIP(r.limits.Strict, r.limits.TrustedProxies...),
	)

	// GET /userinfo - lenient, resource servers call it on every request
	r.handle("GET /userinfo", &UserInfoHandler{SessionService: r.SessionService},
		httpx.RateLimitByIP(r.limits.Lenient, r.limits.TrustedProxies...),
	)
}

func (r *Router) registerAdmin() {
	if r.AdminService == nil {
		return
	}

	h := &AdminHandler{AdminService: r.AdminService}
	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RateLimitByIP(r.limits.Moderate, r.limits.TrustedProxies...),
			RequireAdminToken(r.AdminToken),
		)
	}

	r.handle("POST /admin/users", secured(h.HandleCreateUser))
	r.handle("POST /admin/applications", secured(h.HandleCreateApplication))
	r.handle("GET /admin/applications", secured(h.HandleListApplications))
}

func (r *Router) registerSystem() {
	r.handle("GET /{$}", StatusHandler(), httpx.RateLimitByIP(r.limits.Public, r.limits.TrustedProxies...))

	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.handle("GET /livez", LivezHandler(r.startTime, r.buildVersion),
		httpx.RateLimitByIP(r.limits.Lenient, r.limits.TrustedProxies...),
	)
	r.handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Cache, r.Signer),
		httpx.RateLimitByIP(r.limits.Lenient, r.limits.TrustedProxies...),
	)

	if r.Gatherer != nil {
		r.handle("GET /metrics", promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{}))
	}
}
