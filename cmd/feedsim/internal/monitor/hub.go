// Package monitor serves live run statistics over websocket, so an
// operator can watch a benchmark run without tailing logs. It is a
// reporting surface only; the market data stream never passes through it.
package monitor

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/jalsol/feedsim/pkg/models"
)

type ClientInterface interface {
	ID() string
	SendBytes(b []byte)
	Close()
}

// Hub fans stats payloads out to every connected client.
type Hub struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	clients map[ClientInterface]bool
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[ClientInterface]bool),
	}
}

// Report implements the feed's StatsReporter: every progress snapshot is
// broadcast as one JSON message.
func (h *Hub) Report(ctx context.Context, stats models.RunStats) {
	payload, err := json.Marshal(stats)
	if err != nil {
		h.logger.Error("Stats marshal error", zap.Error(err))
		return
	}
	h.Broadcast(payload)
}

func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		client.SendBytes(msg)
	}
}

func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client] {
		delete(h.clients, client)
		client.Close()
	}
}

// Shutdown disconnects every client.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		client.Close()
	}
}
