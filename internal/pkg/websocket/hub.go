package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Change types carried by ChangeEvent
const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

// ChangeEvent tells subscribers that a row of a table changed. It carries no
// row body; clients refetch the affected collection.
type ChangeEvent struct {
	Table string `json:"table"`
	Type  string `json:"type"`
	ID    int64  `json:"id,omitempty"`

	// InstitutionID is the institution owning the row, when it has one.
	// Only admins receive events without it.
	InstitutionID *int64    `json:"institutionId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type subscription struct {
	client    *Client
	tables    []string
	subscribe bool
}

// Hub maintains the set of active clients and fans change events out to the
// clients subscribed to the event's table
type Hub struct {
	// Registered clients organized by table
	clients map[string]map[*Client]bool

	// Every registered client
	all map[*Client]bool

	broadcast  chan *ChangeEvent
	register   chan *Client
	unregister chan *Client
	subscribe  chan subscription
	done       chan struct{}

	// Guards clients and all for readers outside Run
	mu sync.RWMutex

	listenersMu sync.RWMutex
	listeners   []chan *ChangeEvent

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		all:        make(map[*Client]bool),
		broadcast:  make(chan *ChangeEvent, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan subscription),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the client maps until ctx is cancelled, then disconnects everyone
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case sub := <-h.subscribe:
			h.applySubscription(sub)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// enqueue hands a request to the Run loop. It reports false once the hub has stopped.
func enqueue[T any](h *Hub, ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[client] = true
	for table := range client.tables {
		h.addToTable(client, table)
	}

	h.logger.Info().
		Int64("userID", client.userID).
		Strs("tables", client.tableList()).
		Str("addr", client.addr).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops client from every table and closes its send channel. h.mu must be held.
func (h *Hub) removeLocked(client *Client) {
	if !h.all[client] {
		return
	}
	delete(h.all, client)
	for table := range client.tables {
		h.removeFromTable(client, table)
	}
	close(client.send)

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.addr).
		Msg("Client unregistered")
}

func (h *Hub) addToTable(client *Client, table string) {
	if _, ok := h.clients[table]; !ok {
		h.clients[table] = make(map[*Client]bool)
	}
	h.clients[table][client] = true
}

func (h *Hub) removeFromTable(client *Client, table string) {
	if set, ok := h.clients[table]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.clients, table)
		}
	}
}

func (h *Hub) applySubscription(sub subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.all[sub.client] {
		return
	}
	for _, table := range sub.tables {
		if sub.subscribe {
			sub.client.tables[table] = true
			h.addToTable(sub.client, table)
		} else {
			delete(sub.client.tables, table)
			h.removeFromTable(sub.client, table)
		}
	}
}

func (h *Hub) broadcastEvent(event *ChangeEvent) {
	h.notifyListeners(event)

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("table", event.Table).Msg("Failed to marshal change event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[event.Table]
	if len(clients) == 0 {
		h.logger.Debug().Str("table", event.Table).Msg("No subscribers for change event")
		return
	}

	var slow []*Client
	delivered := 0
	for client := range clients {
		if !client.canSee(event) {
			continue
		}
		delivered++
		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	for _, client := range slow {
		h.logger.Warn().Int64("userID", client.userID).Msg("Dropping slow websocket client")
		h.removeLocked(client)
	}

	h.logger.Debug().
		Str("table", event.Table).
		Str("type", event.Type).
		Int("clientCount", delivered).
		Msg("Change event broadcasted")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.all {
		h.removeLocked(client)
	}
}

func (h *Hub) notifyListeners(event *ChangeEvent) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.listeners {
		select {
		case listener <- event:
		default:
			h.logger.Warn().Str("table", event.Table).Msg("Skipped slow change listener")
		}
	}
}

// Publish queues an event for delivery. It does not block once ctx is done.
func (h *Hub) Publish(ctx context.Context, event *ChangeEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case h.broadcast <- event:
	case <-ctx.Done():
	case <-h.done:
	}
}

// SubscriberCount returns the number of clients subscribed to table
func (h *Hub) SubscriberCount(table string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[table])
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// AddListener registers a channel that receives every event, whatever the table
func (h *Hub) AddListener(listener chan *ChangeEvent) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	h.listeners = append(h.listeners, listener)
	h.logger.Info().Msg("Added change listener")
}

// RemoveListener removes a listener from the hub
func (h *Hub) RemoveListener(listener chan *ChangeEvent) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.listeners {
		if l == listener {
			h.listeners[i] = h.listeners[len(h.listeners)-1]
			h.listeners = h.listeners[:len(h.listeners)-1]
			h.logger.Info().Msg("Removed change listener")
			break
		}
	}
}
