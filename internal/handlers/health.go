package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"blogapi/internal/respond"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// Health reports liveness of the server and its backends.
type Health struct {
	checks map[string]Check
}

// NewHealth creates a health handler running the named checks.
func NewHealth(checks map[string]Check) *Health {
	return &Health{checks: checks}
}

// ServeHTTP handles GET /health. Any failing check answers 503.
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	report := map[string]string{}
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			log.Warn().Err(err).Str("check", name).Msg("health check failed")
			report[name] = "down"
			healthy = false
			continue
		}
		report[name] = "up"
	}

	if !healthy {
		respond.Fail(w, http.StatusServiceUnavailable, "Service unavailable")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"status": "ok", "checks": report})
}
