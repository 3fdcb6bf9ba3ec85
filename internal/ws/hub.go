package ws

import (
	"context"
	"sync"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub fans refreshed prices out to connected dashboard clients.
type Hub struct {
	clients map[string]*models.Client

	register chan *models.Client

	unregister chan *models.Client

	broadcast chan []*models.LivePrice

	done chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*models.Client),
		register:   make(chan *models.Client),
		unregister: make(chan *models.Client),
		broadcast:  make(chan []*models.LivePrice, 16),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				client.Close()
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				client.Close()
			}
			h.mu.Unlock()

		case prices := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				for _, price := range prices {
					if !client.IsSubscribed(price.Symbol) {
						continue
					}
					select {
					case client.Send <- price:
					default:
						zap.L().Warn("Client buffer full, skipping message", zap.String("client_id", client.ID))
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// RegisterClient returns nil once the hub has stopped.
func (h *Hub) RegisterClient(conn *websocket.Conn) *models.Client {
	client := models.NewClient(uuid.New().String(), conn)
	select {
	case h.register <- client:
		return client
	case <-h.done:
		return nil
	}
}

func (h *Hub) UnregisterClient(client *models.Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastPrices queues prices for delivery without blocking the caller. When
// the queue is full the batch is dropped; the next refresh supersedes it.
func (h *Hub) BroadcastPrices(prices []*models.LivePrice) {
	if len(prices) == 0 {
		return
	}
	select {
	case h.broadcast <- prices:
	default:
		zap.L().Warn("Price broadcast queue full, dropping batch", zap.Int("prices", len(prices)))
	}
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
