package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"cargo-backend/internal/services"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Tracking screens are served from other origins on the warehouse LAN
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub pushes ULD status updates to connected tracking screens. The
// feed is one-way: clients only listen.
type Hub struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan services.StatusUpdate
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan services.StatusUpdate, 64),
	}
}

// Run dispatches queued updates to every connected client
func (h *Hub) Run() {
	for update := range h.broadcast {
		payload, err := json.Marshal(update)
		if err != nil {
			continue
		}

		h.clientsMux.Lock()
		for conn := range h.clients {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.clientsMux.Unlock()
	}
}

// BroadcastStatus implements services.StatusBroadcaster. Drops the
// update when the queue is full rather than blocking a status write.
func (h *Hub) BroadcastStatus(update services.StatusUpdate) {
	select {
	case h.broadcast <- update:
	default:
		log.Println("[WS] broadcast queue full, dropping update")
	}
}

// ServeWS upgrades an HTTP request to a tracking feed connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()

	// Drain (and discard) client frames so pings are answered and
	// closed connections are noticed.
	go func() {
		defer func() {
			h.clientsMux.Lock()
			delete(h.clients, conn)
			h.clientsMux.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
