// Package websocket pushes change events for a warehouse's floor plan to
// connected browser sessions, so other viewers see shelf and item edits
// without waiting for the next poll.
package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Event is one change notification scoped to a warehouse
type Event struct {
	Type        string      `json:"type"` // e.g. shelf.updated, item.created
	WarehouseID string      `json:"warehouseId"`
	Payload     interface{} `json:"payload,omitempty"`
}

// Hub maintains the set of active clients grouped by warehouse
type Hub struct {
	// warehouseID -> subscribed clients
	clients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	events     chan Event

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan Event, 64),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			subs, ok := h.clients[client.warehouseID]
			if !ok {
				subs = make(map[*Client]struct{})
				h.clients[client.warehouseID] = subs
			}
			subs[client] = struct{}{}
			h.mu.Unlock()
			log.Printf("📡 Viewer joined warehouse %s", client.warehouseID)

		case client := <-h.unregister:
			h.mu.Lock()
			if subs, ok := h.clients[client.warehouseID]; ok {
				if _, ok := subs[client]; ok {
					delete(subs, client)
					close(client.send)
					if len(subs) == 0 {
						delete(h.clients, client.warehouseID)
					}
					log.Printf("📴 Viewer left warehouse %s", client.warehouseID)
				}
			}
			h.mu.Unlock()

		case event := <-h.events:
			h.deliver(event)
		}
	}
}

// Broadcast queues a change event for every viewer of the warehouse.
// It never blocks the caller; delivery is best effort.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.events <- event:
	default:
		log.Printf("⚠️ Event queue full, dropping %s for warehouse %s", event.Type, event.WarehouseID)
	}
}

func (h *Hub) deliver(event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[event.WarehouseID] {
		select {
		case client.send <- msg:
		default:
			// Buffer full or client dead; the read pump will reap it
		}
	}
}
