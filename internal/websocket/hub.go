// Package websocket pushes live update notifications to connected dashboards.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/vinnybad/choremander/internal/metrics"
)

// Message is a notification broadcast to every connected client. Clients
// treat any message as a cue to refetch state; the payload carries just
// enough context to decide whether a refetch is needed.
type Message struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
}

// StateUpdated signals that a new state snapshot is available.
func StateUpdated(at time.Time) Message {
	return Message{Type: "state_updated", Timestamp: at}
}

// ApprovalPending signals that a completion or claim now awaits review.
// detail names the chore or reward involved.
func ApprovalPending(detail string) Message {
	return Message{Type: "approval_pending", Timestamp: time.Now().UTC(), Detail: detail}
}

// Hub maintains the set of active WebSocket clients and broadcasts messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	metrics.SetWebsocketClients(len(h.clients))
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	metrics.SetWebsocketClients(len(h.clients))
	h.mu.Unlock()
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// client buffer full, drop rather than block the hub
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
