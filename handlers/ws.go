package handlers

import (
	"net/http"

	"medconnect/services/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type RealtimeHandler struct {
	Hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{
		Hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origin is enforced by CORS and the bearer token
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the connection and joins the caller to their own room.
func (h *RealtimeHandler) ServeWS(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		getLogger(c).Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	h.Hub.Serve(c.Request.Context(), conn, a.UserID)
}
