package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jstittsworth/ffdecision/internal/services"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub *services.WebSocketHub
}

func NewWebSocketHandler(hub *services.WebSocketHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWebSocket upgrades the connection and registers a client scoped
// to the team_id supplied either by AuthRequired/OptionalAuth middleware
// or, for anonymous league-wide subscriptions, a query parameter.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	teamID, _ := c.Get("team_id")
	teamIDStr, _ := teamID.(string)
	if teamIDStr == "" {
		teamIDStr = c.Query("team_id")
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Errorf("failed to upgrade websocket connection: %v", err)
		return
	}

	client := services.NewClient(h.hub, conn, teamIDStr)
	h.hub.Register(client)

	welcome := map[string]interface{}{
		"type": "welcome",
		"data": map[string]interface{}{
			"message":   "connected to fantasy decision engine",
			"team_id":   teamIDStr,
			"timestamp": time.Now().UTC(),
		},
	}
	if err := conn.WriteJSON(welcome); err != nil {
		logrus.Errorf("failed to send websocket welcome message: %v", err)
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
