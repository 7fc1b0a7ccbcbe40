package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"NovaChat/entity"
)

// ClientMessageHandler handles incoming WebSocket events from connected
// widgets and agent consoles.
type ClientMessageHandler interface {
	HandleTyping(sessionID, role string, isTyping bool)
}

// Event represents a WebSocket event pushed to connected clients.
type Event struct {
	Type      string `json:"type"` // "new_message", "session_update", "typing"
	SessionID string `json:"session_id"`
	Data      any    `json:"data"`
}

// Hub maintains the set of active WebSocket clients and fans events out to
// the ones watching the event's session. Agent consoles connect without a
// session id and receive everything.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	handler    ClientMessageHandler
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// SetHandler sets the handler for incoming client events.
func (h *Hub) SetHandler(handler ClientMessageHandler) {
	h.handler = handler
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if !client.watches(event.SessionID) {
					continue
				}
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastMessage pushes a new_message event to the session's watchers.
func (h *Hub) BroadcastMessage(msg entity.ChatMessage) {
	h.broadcast <- &Event{
		Type:      "new_message",
		SessionID: msg.SessionID,
		Data:      msg,
	}
}

// BroadcastSessionUpdate pushes the fresh session document to its watchers.
func (h *Hub) BroadcastSessionUpdate(sess entity.ChatSession) {
	h.broadcast <- &Event{
		Type:      "session_update",
		SessionID: sess.ID,
		Data:      sess,
	}
}

// BroadcastTyping pushes a typing indicator to the session's watchers.
func (h *Hub) BroadcastTyping(sessionID, role string, isTyping bool) {
	h.broadcast <- &Event{
		Type:      "typing",
		SessionID: sessionID,
		Data: map[string]any{
			"role":      role,
			"is_typing": isTyping,
		},
	}
}

// clientEvent represents an incoming WebSocket message from a client.
type clientEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleClientMessage parses and dispatches an incoming client event.
func (h *Hub) HandleClientMessage(c *Client, raw []byte) {
	if h.handler == nil {
		return
	}

	var event clientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		if h.log != nil {
			h.log.Warn("failed to parse client ws message", slog.String("error", err.Error()))
		}
		return
	}

	switch event.Type {
	case "typing":
		var data struct {
			IsTyping bool `json:"is_typing"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			if h.log != nil {
				h.log.Warn("failed to parse typing data", slog.String("error", err.Error()))
			}
			return
		}
		if c.sessionID == "" {
			return
		}
		h.handler.HandleTyping(c.sessionID, c.role, data.IsTyping)
	}
}
