package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/snazzyfellas/auth/internal/auth/cache"
	httpapi "github.com/snazzyfellas/auth/internal/auth/http"
	"github.com/snazzyfellas/auth/internal/auth/metrics"
	"github.com/snazzyfellas/auth/internal/auth/service"
	"github.com/snazzyfellas/auth/internal/auth/store"
	"github.com/snazzyfellas/auth/internal/auth/store/drivers/postgres"
	"github.com/snazzyfellas/auth/internal/auth/store/drivers/sqlite"
	"github.com/snazzyfellas/auth/pkg/cryptox"
	"github.com/snazzyfellas/auth/pkg/jwtx"
	"github.com/snazzyfellas/auth/pkg/otelx"
	"github.com/snazzyfellas/auth/pkg/slogx"
)

// BuildVersion is overridden at build time with
// -ldflags "-X github.com/snazzyfellas/auth/internal/auth/app.BuildVersion=...".
var BuildVersion = "v0.1.0"

const serviceName = "auth-service"

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db           store.Store
	sessionCache cache.SessionCache // nil without redis
	signer       jwtx.Signer
	hasher       *cryptox.Hasher
	registry     *prometheus.Registry
	metrics      *metrics.Metrics

	shutdownTracing func(context.Context) error

	// Services
	authorizeService    *service.AuthorizeService
	tokenService        *service.TokenService
	sessionService      *service.SessionService
	adminService        *service.AdminService // nil unless ADMIN_PANEL
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
// On error everything opened so far is closed again.
func New(ctx context.Context, cfg Config) (_ *Application, err error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: serviceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}
	defer func() {
		if err != nil {
			app.closeResources(context.Background())
		}
	}()

	app.shutdownTracing, err = otelx.Setup(ctx, serviceName, BuildVersion, cfg.OTelEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initCache(ctx); err != nil {
		return nil, err
	}
	if err := app.initCrypto(); err != nil {
		return nil, err
	}

	app.initMetrics()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run serves HTTP until ctx is cancelled or the server fails, then shuts
// down gracefully.
func (app *Application) Run(ctx context.Context) error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting",
		"addr", app.cfg.ListenAddr,
		"version", BuildVersion,
		"driver", app.cfg.DatabaseDriver,
		"cache", app.sessionCache != nil,
		"admin_panel", app.cfg.AdminPanel,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			app.closeResources(context.Background())
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		app.logger.Info("shutdown signal received", "cause", context.Cause(ctx))
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// Shutdown gracefully shuts down a running application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	err := app.closeResources(ctx)
	app.logger.Info("auth service stopped")
	return err
}

// closeResources releases the cache, the database and the tracer provider.
func (app *Application) closeResources(ctx context.Context) error {
	var errs []error

	if app.sessionCache != nil {
		if err := app.sessionCache.Close(); err != nil {
			app.logger.Error("error closing session cache", "error", err)
			errs = append(errs, err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			errs = append(errs, err)
		}
	}
	if app.shutdownTracing != nil {
		if err := app.shutdownTracing(ctx); err != nil {
			app.logger.Error("error flushing traces", "error", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initCache connects the redis session cache when AUTH_REDIS_URL is set.
func (app *Application) initCache(ctx context.Context) error {
	if app.cfg.RedisURL == "" {
		return nil
	}

	rc, err := cache.NewRedis(ctx, app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to initialize session cache: %w", err)
	}
	app.sessionCache = rc
	app.logger.Info("redis session cache enabled", "ttl", app.cfg.SessionCacheTTL)
	return nil
}

// initCrypto loads the pepper and builds the hasher and id token signer.
func (app *Application) initCrypto() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewHasher(pepper)

	signer, err := jwtx.NewSignerHS256([]byte(app.cfg.JWTSecret))
	if err != nil {
		return fmt.Errorf("failed to initialize id token signer: %w", err)
	}
	app.signer = signer
	return nil
}

func (app *Application) initMetrics() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(app.registry)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authorizeService = &service.AuthorizeService{
		Store:        app.db,
		Hasher:       app.hasher,
		CodeTTL:      app.cfg.CodeTTL,
		StoreTimeout: app.cfg.StoreTimeout,
		Metrics:      app.metrics,
	}

	app.tokenService = &service.TokenService{
		Store:        app.db,
		Signer:       app.signer,
		Issuer:       app.cfg.Issuer,
		SessionTTL:   app.cfg.SessionTTL,
		StoreTimeout: app.cfg.StoreTimeout,
		Metrics:      app.metrics,
	}

	app.sessionService = &service.SessionService{
		Store:        app.db,
		CacheTTL:     app.cfg.SessionCacheTTL,
		StoreTimeout: app.cfg.StoreTimeout,
		Metrics:      app.metrics,
	}
	if app.sessionCache != nil {
		app.sessionService.Cache = app.sessionCache
	}

	if app.cfg.AdminPanel {
		app.adminService = &service.AdminService{
			Store:        app.db,
			Hasher:       app.hasher,
			StoreTimeout: app.cfg.StoreTimeout,
		}
		app.logger.Info("admin endpoints enabled")
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	app.housekeepingService.StoreTimeout = app.cfg.StoreTimeout
	app.housekeepingService.Metrics = app.metrics
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.cfg.RateLimits, app.logger)

	// Wire services to router
	router.AuthorizeService = app.authorizeService
	router.TokenService = app.tokenService
	router.SessionService = app.sessionService
	router.AdminService = app.adminService
	router.AdminToken = app.cfg.AdminToken
	router.Signer = app.signer
	router.Gatherer = app.registry
	if app.sessionCache != nil {
		router.Cache = app.sessionCache
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              app.cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
