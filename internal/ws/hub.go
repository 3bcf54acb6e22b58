package ws

import (
	"sync"
)

// Hub tracks connected clients per user. One user may hold several sockets
// (multiple tabs); a push goes to all of them. The hub is constructed in main
// and handed to whatever needs to push, there is no package-level instance.
type Hub struct {
	clientsByUser map[string]map[*Client]struct{}
	mu            sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clientsByUser: make(map[string]map[*Client]struct{})}
}

func (h *Hub) AddClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clientsByUser[c.UserID]; !ok {
		h.clientsByUser[c.UserID] = make(map[*Client]struct{})
	}
	h.clientsByUser[c.UserID][c] = struct{}{}
}

func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clientsByUser[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clientsByUser, c.UserID)
		}
	}
}

// SendToUser delivers msg to every socket the user has open. Fire-and-forget:
// slow clients drop the message, offline users miss it entirely and catch up
// over the REST listing.
func (h *Hub) SendToUser(userID string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clientsByUser[userID] {
		c.Send(msg)
	}
}

// ConnectedUsers reports how many distinct users hold at least one socket.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clientsByUser)
}
