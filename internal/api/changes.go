package api

import (
	"time"

	"github.com/rs/zerolog"
)

// ChangeEvent is one message on the vault change feed. The feed carries
// state summaries, not deltas: subscribers that need detail re-query the
// REST surface after a notification.
type ChangeEvent struct {
	Timestamp     time.Time `json:"timestamp"`
	RootID        string    `json:"root_id,omitempty"`
	TotalEntities int       `json:"total_entities"`
	TrashedCount  int       `json:"trashed_count"`
}

// Hub maintains the set of active WebSocket clients and fans change events
// out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan ChangeEvent
	register   chan *Client
	unregister chan *Client
	log        zerolog.Logger
}

// NewHub creates a new hub instance.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan ChangeEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run processes hub events. Must be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Debug().Int("clients", len(h.clients)).Msg("websocket client connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Debug().Int("clients", len(h.clients)).Msg("websocket client disconnected")
			}

		case event := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					// Slow consumer: drop it rather than block the feed.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Broadcast queues a change event for delivery to all connected clients.
// When the queue is full the event is dropped; the feed is advisory.
func (h *Hub) Broadcast(event ChangeEvent) {
	event.Timestamp = time.Now().UTC()
	select {
	case h.broadcast <- event:
	default:
		h.log.Warn().Msg("change feed queue full, dropping event")
	}
}

// ClientCount returns the number of connected clients. Approximate: the
// hub goroutine owns the map.
func (h *Hub) ClientCount() int {
	return len(h.clients)
}
