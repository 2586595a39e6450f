package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is one message pushed to the item detail screen.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrHubStopped is returned once Run has exited.
var ErrHubStopped = errors.New("websocket hub stopped")

// viewEvent routes an event to the sockets watching one view.
type viewEvent struct {
	ViewID uuid.UUID
	Event  Event
}

// Hub tracks the sockets watching each view and fans events out to them.
type Hub struct {
	// Registered clients by view ID
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *viewEvent
	done       chan struct{}

	mu  sync.RWMutex
	log *zap.Logger
}

// NewHub creates a new Hub. Call Run before registering clients.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *viewEvent, 256),
		done:       make(chan struct{}),
		log:        log.Named("ws"),
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled, closing every
// client's send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for viewID, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, viewID)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.viewID] == nil {
				h.rooms[client.viewID] = make(map[*Client]bool)
			}
			h.rooms[client.viewID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.log.Error("marshal event", zap.String("view_id", event.ViewID.String()), zap.Error(err))
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[event.ViewID] {
				select {
				case client.send <- message:
				default:
					// Send buffer full: drop the client.
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove drops client from its room. Caller holds h.mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.rooms[client.viewID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.viewID)
	}
}

// Subscribers reports how many sockets watch viewID.
func (h *Hub) Subscribers(viewID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[viewID])
}

// BroadcastToView queues event for every socket watching viewID.
func (h *Hub) BroadcastToView(ctx context.Context, viewID uuid.UUID, event Event) error {
	select {
	case h.broadcast <- &viewEvent{ViewID: viewID, Event: event}:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
