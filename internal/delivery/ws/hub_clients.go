package ws

import "github.com/mmuslimabdulj/quickmeet/internal/domain"

// Register adds a client to the hub. It returns false if the hub has stopped
// or is being discarded. A registration in flight keeps the room alive.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	if h.closing {
		h.mu.Unlock()
		return false
	}
	h.joining++
	h.mu.Unlock()

	select {
	case h.register <- c:
		return true
	case <-h.done:
		h.mu.Lock()
		h.joining--
		h.mu.Unlock()
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Submit queues an intent from a client for the run loop
func (h *Hub) Submit(c *Client, in domain.Intent) {
	select {
	case h.intents <- clientIntent{client: c, intent: in}:
	case <-h.done:
	}
}

// ClientCount returns the number of connected tabs
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// sendTo writes to one tab if it is still registered. Caller holds h.mu.
func (h *Hub) sendTo(c *Client, msg []byte) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	c.Send(msg)
}

// broadcastLocked sends to every tab. Caller holds h.mu.
func (h *Hub) broadcastLocked(msg []byte) {
	for _, client := range h.clients {
		select {
		case client.send <- msg:
		default:
			// Client buffer full, close connection and remove client
			close(client.send)
			delete(h.clients, client.ID)
		}
	}
}
