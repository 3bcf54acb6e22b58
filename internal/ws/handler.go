package ws

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/learnhub/backend/internal/utils"
)

// Handler upgrades /ws?token=<jwt> connections and parks them in the hub.
// The server only pushes; inbound frames are ignored except pongs handled by
// the transport.
type Handler struct {
	hub    *Hub
	jwt    *utils.JWTManager
	logger *zap.SugaredLogger

	pingInterval  time.Duration
	writeDeadline time.Duration
}

func NewHandler(hub *Hub, jwt *utils.JWTManager, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		hub:           hub,
		jwt:           jwt,
		logger:        logger,
		pingInterval:  30 * time.Second,
		writeDeadline: 10 * time.Second,
	}
}

// Upgrade gates the HTTP->WS upgrade. Mounted before the websocket.New route.
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve is the websocket connection handler.
func (h *Handler) Serve(conn *websocket.Conn) {
	token := conn.Query("token")
	if token == "" {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"missing token"}`))
		_ = conn.Close()
		return
	}
	claims, err := h.jwt.ParseAccess(token)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
		_ = conn.Close()
		return
	}

	client := NewClient(claims.UserID, uuid.New().String(), conn)
	h.hub.AddClient(client)
	h.logger.Debugw("ws connected", "user_id", client.UserID, "socket_id", client.SocketID)

	go client.WritePump(h.pingInterval, h.writeDeadline)

	// Reader loop exists to detect disconnects; client frames carry nothing
	// the server acts on.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.hub.RemoveClient(client)
	client.Close()
	h.logger.Debugw("ws disconnected", "user_id", client.UserID, "socket_id", client.SocketID)
}
