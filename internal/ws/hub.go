// internal/ws/hub.go
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is a push notice sent to a subject's connected portals.
type Event struct {
	Type    string    `json:"type"`
	Subject string    `json:"subject,omitempty"`
	At      time.Time `json:"at"`
}

const (
	EventSessionCreated = "session.created"
	EventSessionRevoked = "session.revoked"
)

type Hub struct {
	// Registered clients by subject
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// Notify sends an event to every connection of a subject. Slow clients are
// skipped rather than blocking the caller.
func (h *Hub) Notify(subject string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[subject] {
		select {
		case client.send <- payload:
		default:
		}
	}
}

// KickSubject notifies a subject's connections that their sessions were
// revoked and closes them.
func (h *Hub) KickSubject(subject string) {
	payload, _ := json.Marshal(Event{
		Type:    EventSessionRevoked,
		Subject: subject,
		At:      time.Now(),
	})

	h.mu.Lock()
	conns := h.clients[subject]
	delete(h.clients, subject)
	h.mu.Unlock()

	for client := range conns {
		select {
		case client.send <- payload:
		default:
		}
		client.close()
	}

	if len(conns) > 0 {
		h.logger.Info("kicked subject connections",
			zap.String("subject", subject),
			zap.Int("connections", len(conns)),
		)
	}
}

// Stats reports connection counts for the backoffice.
func (h *Hub) Stats() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := make(map[string]int, len(h.clients))
	for subject, conns := range h.clients {
		stats[subject] = len(conns)
	}
	return stats
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	conns, ok := h.clients[client.subject]
	if !ok {
		conns = make(map[*Client]bool)
		h.clients[client.subject] = conns
	}
	conns[client] = true
	h.mu.Unlock()
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if conns, ok := h.clients[client.subject]; ok {
		if conns[client] {
			delete(conns, client)
			client.close()
			if len(conns) == 0 {
				delete(h.clients, client.subject)
			}
		}
	}
	h.mu.Unlock()
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for subject, conns := range h.clients {
		for client := range conns {
			client.close()
		}
		delete(h.clients, subject)
	}
}
