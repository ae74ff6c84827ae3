package api

import (
	"context"
	"net/http"
	"time"
)

// healthCheckTimeout bounds the database ping made by /health.
const healthCheckTimeout = 2 * time.Second

// HealthResponse is the body returned by /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	MQTT    string `json:"mqtt,omitempty"`
	Error   string `json:"error,omitempty"`
}

// healthChecker is implemented by publishers that can report broker reachability.
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// handleHealth reports whether the server can reach its database.
// Broker state is reported alongside but never fails the check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Version: s.version}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if hc, ok := s.publisher.(healthChecker); ok {
		resp.MQTT = "ok"
		if err := hc.HealthCheck(ctx); err != nil {
			s.logger.Debug("mqtt health check failed", "error", err)
			resp.MQTT = "unavailable"
		}
	}

	if s.pool != nil {
		if err := s.pool.HealthCheck(ctx); err != nil {
			s.logger.Warn("health check failed", "error", err)
			resp.Status = "unavailable"
			resp.Error = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
