package ws

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

const sendBuffer = 16

// Client is one websocket connection bound to a user.
type Client struct {
	UserID   string
	SocketID string
	Conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
}

func NewClient(userID, socketID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID:   userID,
		SocketID: socketID,
		Conn:     conn,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
	}
}

// Send queues msg for delivery. Non-blocking: a full buffer drops the message.
func (c *Client) Send(msg []byte) {
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

// WritePump drains the send channel onto the socket and keeps the connection
// alive with pings. Runs in its own goroutine per client.
func (c *Client) WritePump(pingInterval, writeDeadline time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case msg := <-c.send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.Conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		case <-c.done:
			_ = c.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
