package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/orderdesk-app/utils"
)

// Push topics
const (
	TopicOrdersCreated   = "orders:created"
	TopicOrdersUpdated   = "orders:updated"
	TopicOrdersDeleted   = "orders:deleted"
	TopicVendorsUpdated  = "vendors:updated"
	TopicProductsUpdated = "products:updated"
	TopicNotifications   = "notifications"
)

type Message struct {
	Topic string      `json:"topic"`
	Data  interface{} `json:"data"`
}

type client struct {
	role   string
	topics map[string]bool
}

// Hub fans push events out to websocket clients by topic and to in-process
// subscribers (the event adapter feeding the reconciler).
type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]*client
	handlers map[string][]func(data []byte)
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[*websocket.Conn]*client),
		handlers: make(map[string][]func(data []byte)),
	}
}

// RegisterClient -> adds a connection with its role and topic set. An empty
// topic list subscribes to every order topic.
func (h *Hub) RegisterClient(conn *websocket.Conn, role string, topics []string) {
	if len(topics) == 0 {
		topics = []string{TopicOrdersCreated, TopicOrdersUpdated, TopicOrdersDeleted}
	}
	set := make(map[string]bool, len(topics))
	for _, t := range topics {
		set[t] = true
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = &client{role: role, topics: set}
}

// UnregisterClient -> releases a connection.
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// Subscribe attaches an in-process handler to a topic. Handlers receive the
// marshaled payload exactly as websocket clients do.
func (h *Hub) Subscribe(topic string, fn func(data []byte)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[topic] = append(h.handlers[topic], fn)
}

// Broadcast sends one event to every subscriber of the topic.
func (h *Hub) Broadcast(topic string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Error marshaling %s payload: %v", topic, err)
		}
		return
	}

	msg, err := json.Marshal(Message{Topic: topic, Data: json.RawMessage(payload)})
	if err != nil {
		return
	}

	h.mu.Lock()
	handlers := append([]func(data []byte){}, h.handlers[topic]...)
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn, cl := range h.clients {
		if cl.topics[topic] {
			conns = append(conns, conn)
		}
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(payload)
	}

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Printf("Error sending %s to client: %v", topic, err)
			}
		}
	}
}
