package handler

import (
	"net/http"

	"github.com/capitalize-ai/datastore-webhooks/pkg/logger"
)

// ConnectionChecker reports whether a dependency connection is up.
type ConnectionChecker interface {
	IsConnected() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	natsClient ConnectionChecker
	logger     *logger.Logger
}

// NewHealthHandler creates a new health handler. natsClient may be nil when
// event publishing is disabled.
func NewHealthHandler(natsClient ConnectionChecker, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		natsClient: natsClient,
		logger:     log,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.natsClient != nil && !h.natsClient.IsConnected() {
		writeJSON(w, h.logger, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
