package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Event is one admin-feed message pushed over the websocket.
type Event struct {
	Type       string      `json:"type"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

const (
	EventOrderCreated        = "order.created"
	EventOrderStatusChanged  = "order.status_changed"
	EventReturnRequested     = "return.requested"
	EventReturnStatusChanged = "return.status_changed"
)

// EventHub fans order and return events out to connected admin consoles.
// A slow subscriber is dropped rather than blocking the publishers.
type EventHub struct {
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan Event
	clients    map[*websocket.Conn]struct{}
}

// NewEventHub constructs an EventHub. Run must be started on it.
func NewEventHub() *EventHub {
	return &EventHub{
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan Event, 64),
		clients:    make(map[*websocket.Conn]struct{}),
	}
}

// Run owns the client set. It is the only goroutine that touches it.
func (h *EventHub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = struct{}{}
		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
		case event := <-h.broadcast:
			raw, err := json.Marshal(event)
			if err != nil {
				log.Printf("events: marshal failed: %v", err)
				continue
			}
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
					delete(h.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

// Publish queues an event for broadcast. It never blocks; when the queue
// is full the event is dropped and logged.
func (h *EventHub) Publish(eventType string, payload interface{}) {
	event := Event{Type: eventType, Payload: payload, OccurredAt: time.Now()}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("events: queue full, dropped %s", eventType)
	}
}

// Upgrade gates the websocket handshake for non-websocket requests.
func (h *EventHub) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve handles one admin websocket connection. Reads are discarded; the
// read loop only exists to detect the peer going away.
func (h *EventHub) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.register <- conn
		defer func() { h.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
