package ws

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/minesboomer/internal/dependencies/ids"
	"github.com/mcoot/minesboomer/internal/model"
	"github.com/mcoot/minesboomer/internal/protocol"
)

// Hub is the connection registry. It maps each connection to the outbound
// queue drained by that connection's write pump.
type Hub struct {
	clients map[model.ConnectionID]*Client
	mu      sync.RWMutex
	ids     ids.Generator
	logger  *slog.Logger
}

// NewHub creates a new Hub
func NewHub(idgen ids.Generator, logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ConnectionID]*Client),
		ids:     idgen,
		logger:  logger.With(slog.String("component", "ws-hub")),
	}
}

// Register assigns the client a connection id and adds it to the hub
func (h *Hub) Register(client *Client) model.ConnectionID {
	client.id = model.ConnectionID(h.ids.NewID())

	h.mu.Lock()
	h.clients[client.id] = client
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws client registered",
		slog.String("connection_id", string(client.id)),
		slog.Int("total_clients", clientCount))
	return client.id
}

// Unregister removes a connection and closes its outbound queue, which stops
// the write pump. Returns false if the connection was already gone.
func (h *Hub) Unregister(id model.ConnectionID) bool {
	h.mu.Lock()
	client, ok := h.clients[id]
	if !ok {
		h.mu.Unlock()
		return false
	}
	delete(h.clients, id)
	close(client.send)
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws client unregistered",
		slog.String("connection_id", string(id)),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", clientCount))
	return true
}

// Send queues a message for a connection. It never blocks: a connection
// whose queue is full is unregistered, which the read side observes as a
// disconnect.
func (h *Hub) Send(id model.ConnectionID, msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	client, ok := h.clients[id]
	if !ok {
		h.mu.RUnlock()
		return model.ErrNotConnected
	}
	select {
	case client.send <- data:
		h.mu.RUnlock()
		return nil
	default:
	}
	h.mu.RUnlock()

	h.logger.Warn("ws client buffer full - closing connection",
		slog.String("connection_id", string(id)))
	h.Unregister(id)
	return fmt.Errorf("%w: %s", model.ErrSendBufferFull, id)
}

// Count returns the number of registered connections
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close unregisters every connection
func (h *Hub) Close() {
	h.mu.Lock()
	clientCount := len(h.clients)
	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
	h.mu.Unlock()
	h.logger.Info("ws hub stopped", slog.Int("disconnected_clients", clientCount))
}
