// Package feed fans committed vault events out to live subscribers.
package feed

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-vault-ledger/internal/observability/metrics"
	"github.com/babylonlabs-io/token-vault-ledger/internal/types"
)

const subscriberBufferSize = 64

// Hub delivers every broadcast event to all subscribers. A subscriber whose
// buffer is full misses the event instead of blocking the sender.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan []byte]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[chan []byte]struct{}),
	}
}

// Subscribe returns the channel receiving encoded events and the function
// that unsubscribes it. The channel is closed on unsubscribe.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	client := make(chan []byte, subscriberBufferSize)

	h.mu.Lock()
	h.clients[client] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	metrics.SetEventSubscribers(count)

	var once sync.Once
	return client, func() {
		once.Do(func() { h.unsubscribe(client) })
	}
}

func (h *Hub) unsubscribe(client chan []byte) {
	h.mu.Lock()
	delete(h.clients, client)
	close(client)
	count := len(h.clients)
	h.mu.Unlock()
	metrics.SetEventSubscribers(count)
}

func (h *Hub) Broadcast(ev *types.VaultEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("event_id", ev.ID).Msg("Failed to encode event for the feed")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client <- data:
		default:
			// slow subscriber, skip
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
