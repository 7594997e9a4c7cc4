package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/apikit/pkg/logger"
)

// Check is a named readiness probe such as redis.Healthcheck(client).
type Check struct {
	Name  string
	Probe func(context.Context) error
}

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LivenessHandler always answers 200 {"status":"alive"}.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, http.StatusOK, healthBody{Status: "alive"})
	}
}

// ReadinessHandler runs every check with the request context. It answers 200
// when all pass and 503 otherwise, reporting "ok" or "failed" per check.
// Failure causes are logged, never returned to the caller.
func ReadinessHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		body := healthBody{Status: "ready", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK

		for _, c := range checks {
			if err := c.Probe(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					logger.Component(c.Name),
					logger.Error(err),
				)
				body.Checks[c.Name] = "failed"
				body.Status = "not_ready"
				status = http.StatusServiceUnavailable
				continue
			}
			body.Checks[c.Name] = "ok"
		}

		writeHealth(w, status, body)
	}
}

func writeHealth(w http.ResponseWriter, status int, body healthBody) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
