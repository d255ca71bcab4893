package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"melodex/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

const (
	// EventArtistImagesUpdated announces that one of an artist's image
	// slots changed.
	EventArtistImagesUpdated = "images-updated"
	// EventAlbumCoverUpdated announces that an album's cover changed.
	EventAlbumCoverUpdated = "cover-updated"
	// EventThrottled is sent back to a client whose inbound event was
	// rejected by the rate limiter.
	EventThrottled = "throttled"
)

// Event is the advisory payload pushed to clients after an asset mutation.
// Clients must refetch rather than treat it as full state.
type Event struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	Name      string    `json:"name,omitempty"`
	ImageType string    `json:"image_type,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// connection is a single websocket client.
type connection struct {
	id         string
	conn       *websocket.Conn
	send       chan []byte
	subscribed bool
}

// Hub fans asset-change events out to connected clients and throttles their
// inbound traffic per connection.
type Hub struct {
	mu      sync.RWMutex
	conns   map[string]*connection
	limiter *Limiter
}

func NewHub(limiter *Limiter) *Hub {
	return &Hub{
		conns:   make(map[string]*connection),
		limiter: limiter,
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.id] = c
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.conns[c.id]; ok && existing == c {
		delete(h.conns, c.id)
		close(c.send)
	}
	h.limiter.Remove(c.id)
}

// NotifyImageChanged implements the artwork notifier: one typed event per
// successful apply/delete, broadcast to every subscribed connection.
func (h *Hub) NotifyImageChanged(kind domain.EntityKind, id int64, name string, slot domain.ImageSlot) {
	eventType := EventArtistImagesUpdated
	if kind == domain.KindAlbum {
		eventType = EventAlbumCoverUpdated
	}
	h.Broadcast(Event{
		Type:      eventType,
		ID:        id,
		Name:      name,
		ImageType: string(slot),
		Timestamp: time.Now(),
	})
}

// Broadcast pushes an event to all subscribed connections. Slow clients are
// skipped rather than blocking the caller.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.conns {
		if !c.subscribed {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Client too slow, drop the event for it
		}
	}
}

// ConnectionCount reports the number of registered connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// ServeWS registers a new connection and runs its read/write loops. Blocks
// until the client disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn) {
	c := &connection{
		id:         uuid.NewString(),
		conn:       conn,
		send:       make(chan []byte, 64),
		subscribed: true,
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		// Every inbound event counts against the connection's window,
		// including malformed ones.
		if err := h.limiter.Allow(c.id); err != nil {
			h.sendTo(c, Event{Type: EventThrottled, Timestamp: time.Now()})
			continue
		}

		var event struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}

		switch event.Type {
		case "subscribe":
			h.mu.Lock()
			c.subscribed = true
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			c.subscribed = false
			h.mu.Unlock()
		}
	}
}

func (h *Hub) sendTo(c *connection, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
