package http

import (
	"context"
	"net/http"
	"time"

	"github.com/snazzyfellas/auth/internal/auth/cache"
	"github.com/snazzyfellas/auth/internal/auth/store"
	"github.com/snazzyfellas/auth/pkg/authsdk"
	"github.com/snazzyfellas/auth/pkg/httpx"
	"github.com/snazzyfellas/auth/pkg/jwtx"
	"github.com/snazzyfellas/auth/pkg/slogx"
)

const readyzTimeout = 2 * time.Second

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of database, session cache, and signer components
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get]
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	sessionCache cache.SessionCache,
	signer jwtx.Signer,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := slogx.FromContext(r.Context())
		checks := &authsdk.HealthChecks{
			Database: "ok",
			Cache:    "disabled",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		degrade := func(field *string, err error) {
			// The reply stays generic; the cause goes to the log.
			*field = "error"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
			log.Warn("readiness check failed", "error", err)
		}

		ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
		defer cancel()

		// Check database connectivity
		if err := st.Ping(ctx); err != nil {
			degrade(&checks.Database, err)
		}

		if sessionCache != nil {
			checks.Cache = "ok"
			if err := sessionCache.Ping(ctx); err != nil {
				degrade(&checks.Cache, err)
			}
		}

		if signer == nil {
			degrade(&checks.Signer, errNoSigner)
		} else if err := signer.Validate(); err != nil {
			degrade(&checks.Signer, err)
		}

		response := authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).Truncate(time.Second).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
