// internal/server/hub.go
package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// upgrader is used to upgrade HTTP connections to WebSocket connections.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local tooling endpoint; any origin may subscribe.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub maintains the set of active clients and broadcasts reload results to
// them.
type Hub struct {
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

func newHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// register adds conn and sends it the snapshot while holding the lock, so no
// broadcast can slip in between the two.
func (h *Hub) register(conn *websocket.Conn, snapshot func() []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	if msg := snapshot(); msg != nil {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Warn().Err(err).Msg("error writing to watch client")
			delete(h.clients, conn)
			conn.Close()
			return false
		}
	}
	log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("watch client connected")
	return true
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
		log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("watch client disconnected")
	}
}

// broadcastMessage sends a message to all registered clients.
func (h *Hub) broadcastMessage(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Warn().Err(err).Msg("error writing to watch client")
			// On error, assume the client disconnected and remove them.
			client.Close()
			delete(h.clients, client)
		}
	}
}

func (h *Hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// closeAll drops every client; hijacked connections are not closed by
// http.Server.Shutdown.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}

// serveWs handles WebSocket requests from the peer. The latest result is
// sent right after the upgrade.
func serveWs(hub *Hub, w http.ResponseWriter, r *http.Request, snapshot func() []byte) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade error")
		return
	}
	if !hub.register(conn, snapshot) {
		return
	}

	// Clients do not send messages; reading only detects the close.
	defer hub.unregister(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
