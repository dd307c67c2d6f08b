package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/realtime"
)

type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader *websocket.Upgrader
}

// NewRealtimeHandler checks the Origin header against allowed; an empty list
// accepts any origin.
func NewRealtimeHandler(hub *realtime.Hub, allowed []string) *RealtimeHandler {
	allow := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		allow[o] = true
	}

	return &RealtimeHandler{
		hub: hub,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allow) == 0 || allow[origin]
			},
		},
	}
}

// Calendar streams calendar.changed and holidays.sync_finished messages.
func (h *RealtimeHandler) Calendar(c *gin.Context) {
	realtime.Serve(h.hub, h.upgrader, c.Writer, c.Request)
}
