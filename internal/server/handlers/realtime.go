package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/agentstation/roster/internal/server/events"
	ws "github.com/agentstation/roster/internal/server/websocket"
)

// HandleWebSocket handles GET /api/v1/updates/ws. Clients receive
// dataset.reloaded and dataset.merged events as JSON frames.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(uuid.NewString(), h.wsHub, conn)
	h.wsHub.Register(client)

	go client.WritePump()
	go client.ReadPump()
	h.broker.Publish(events.ClientConnected, map[string]any{"client_id": client.ID()})

	h.logger.Debug().
		Str("client_id", client.ID()).
		Str("remote_addr", r.RemoteAddr).
		Msg("WebSocket client attached")
}
