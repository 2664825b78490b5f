// internal/realtime/hub.go
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Client struct {
	ID     string
	UserID uuid.UUID
	Conn   *WebSocketConn
	Send   chan []byte
}

func NewClient(userID uuid.UUID, conn *WebSocketConn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}
}

// Hub fans messages out to connected dashboard clients. The client map is
// owned by Run.
type Hub struct {
	clients    map[string]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *zap.Logger
	onCount    func(n int)
	done       chan struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.Named("Hub"),
	}
}

// OnClientCount registers a callback invoked with the client count after
// every change. Must be set before Run.
func (h *Hub) OnClientCount(fn func(n int)) {
	h.onCount = fn
}

// RegisterClient adds client to the hub. Once the hub has stopped, the
// client's Send channel is closed instead.
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// UnregisterClient is a no-op once the hub has stopped; Run already closed
// every Send channel on its way out.
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast drops the message once the hub has stopped.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

func (h *Hub) BroadcastJSON(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(b)
	return nil
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("Client registered", zap.String("clientID", client.ID), zap.String("userID", client.UserID.String()))
			h.countChanged(n)

		case client := <-h.unregister:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(old.Send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("Client unregistered", zap.String("clientID", client.ID))
			h.countChanged(n)

		case message := <-h.broadcast:
			// drops clients whose buffer is full
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, id)
				}
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.countChanged(n)
		}
	}
}

func (h *Hub) countChanged(n int) {
	if h.onCount != nil {
		h.onCount(n)
	}
}
