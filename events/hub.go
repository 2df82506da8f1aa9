package events

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Event names broadcast to connected clients. There is no server-side
// filtering: every client receives every event and filters on its side.
const (
	EventNewOnlineOrder     = "new-online-order"
	EventKitchenUpdated     = "kitchen-updated"
	EventOrderUpdated       = "order-updated"
	EventOrderStatusUpdated = "order-status-updated"
	EventTableUpdated       = "table-updated"
	EventNewOrder           = "new-order"
)

type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Hub fans events out to every connected websocket client (kitchen display,
// dashboard, online-orders board).
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades the connection and keeps it registered until the client
// goes away. Inbound frames are drained and ignored.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("websocket upgrade failed:", err)
			return
		}
		defer conn.Close()

		h.mu.Lock()
		h.clients[conn] = true
		h.mu.Unlock()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.mu.Lock()
				delete(h.clients, conn)
				h.mu.Unlock()
				break
			}
		}
	}
}

// Broadcast sends {event, payload} to all connected clients. Clients whose
// write fails are closed and dropped.
func (h *Hub) Broadcast(event string, payload interface{}) {
	messageBytes, err := json.Marshal(Message{Event: event, Payload: payload})
	if err != nil {
		log.Println("error marshaling event message:", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, messageBytes); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
