package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/store"
	"github.com/aussiebroadwan/reelhub/pkg/connectorsdk"
	"github.com/aussiebroadwan/reelhub/pkg/cryptox"
	"github.com/aussiebroadwan/reelhub/pkg/httpx"
)

// Pinger is implemented by the shared refresh lock backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check
//	@Description	Pings the database and the shared lock backend and reports the credential cipher mode.
//	@Description	An ephemeral cipher is reported but does not fail readiness.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	connectorsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	connectorsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	cipher *cryptox.Cipher,
	lockBackend Pinger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &connectorsdk.HealthChecks{
			Database: "ok",
			Cipher:   "ok",
			Lock:     "local",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		switch {
		case cipher == nil:
			checks.Cipher = "error: no cipher configured"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		case cipher.Ephemeral():
			checks.Cipher = "ephemeral"
		}

		if lockBackend != nil {
			checks.Lock = "ok"
			if err := lockBackend.Ping(r.Context()); err != nil {
				checks.Lock = "error: " + err.Error()
				overallStatus = "degraded"
				statusCode = http.StatusServiceUnavailable
			}
		}

		httpx.WriteJSON(w, statusCode, connectorsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
