package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/roster/internal/server/response"
)

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "roster-api",
		"version": "v1",
	})
}

// HandleReady handles GET /api/v1/ready. It reports 503 until the master
// dataset can be loaded.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("Master dataset not available")
		response.ServiceUnavailable(w, "Master dataset not available")
		return
	}
	response.OK(w, map[string]any{
		"status":            "ready",
		"master":            h.deps.Master.Location(),
		"rows":              snap.master.Len(),
		"loaded_at":         snap.loadedAt.UTC().Format(time.RFC3339),
		"cache":             h.cache.GetStats(),
		"websocket_clients": h.wsHub.ClientCount(),
	})
}
