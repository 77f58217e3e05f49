package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// EventType identifies what happened to an order
type EventType string

const (
	EventOrderCreated       EventType = "orden_creada"
	EventOrderStatusChanged EventType = "orden_estado"
	EventAppointmentUpdated EventType = "cita_actualizada"
)

// Event is one message on the workshop board stream.
type Event struct {
	Type    EventType   `json:"tipo"`
	OrderID uint        `json:"orden_id,omitempty"`
	Status  string      `json:"estado,omitempty"`
	Payload interface{} `json:"datos,omitempty"`
}

// Hub maintains the set of connected board clients and broadcasts order
// lifecycle events to all of them.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			log.Printf("🖥  Board client connected: %s", client.id)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
				log.Printf("📴 Board client disconnected: %s", client.id)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full or client dead; drop for this client
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends an event to every connected client. Safe to call from any
// goroutine; a nil hub is a no-op.
func (h *Hub) Broadcast(ev Event) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
	}
}
