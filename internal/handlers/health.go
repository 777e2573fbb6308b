package handlers

import (
	"net/http"

	"timelapse-server/internal/logging"
)

// HealthCheck reports liveness. It touches neither the cache nor the
// encoder, so it stays fast under load; probes hit it constantly.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write([]byte("OK")); err != nil {
		logging.Debug("healthcheck write failed: %v", err)
	}
}
