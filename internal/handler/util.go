package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/capitalize-ai/datastore-webhooks/pkg/logger"
)

// writeJSON writes v as a JSON response. The status line is already sent when
// encoding fails, so the failure is only logged.
func writeJSON(w http.ResponseWriter, log *logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("failed to write response", zap.Int("status", status), zap.Error(err))
	}
}
