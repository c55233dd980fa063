package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jdiamond4/CourseSearch/internal/app/models/dto"
)

// Hub maintains the set of connected progress subscribers and fans sync
// pipeline events out to them. Events are fire-and-forget: a subscriber that
// connects mid-run only sees what happens after it joined.
type Hub struct {
	// Registered subscriber connections
	clients map[*Client]bool

	// Channel for events to fan out
	broadcast chan dto.SyncProgressEvent

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Logger for Hub operations
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan dto.SyncProgressEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and event broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// PublishSyncEvent queues a pipeline event for broadcast. The send never
// blocks the pipeline; when the hub is saturated the event is dropped.
func (h *Hub) PublishSyncEvent(event dto.SyncProgressEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().
			Str("runId", event.RunID).
			Str("stage", event.Stage).
			Msg("Progress feed saturated, event dropped")
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info().
		Str("addr", client.conn.RemoteAddr().String()).
		Int("subscribers", len(h.clients)).
		Msg("Progress subscriber registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		h.logger.Info().
			Str("addr", client.conn.RemoteAddr().String()).
			Int("subscribers", len(h.clients)).
			Msg("Progress subscriber unregistered")
	}
}

// broadcastEvent sends one event to every connected subscriber
func (h *Hub) broadcastEvent(event dto.SyncProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("runId", event.RunID).
			Msg("Failed to marshal progress event")
		return
	}

	for client := range h.clients {
		select {
		case client.send <- data:
			// Event sent successfully
		default:
			// Client's send buffer is full, they are slow or disconnected
			delete(h.clients, client)
			close(client.send)
		}
	}

	h.logger.Debug().
		Str("runId", event.RunID).
		Str("stage", event.Stage).
		Int("subscribers", len(h.clients)).
		Msg("Progress event broadcasted")
}
