package dashboard

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// progressEvent is one message pushed to every connected dashboard client.
// Unlike the teacher's chat protocol, this socket is push-only: the
// Orchestrator's progress callbacks drive it, clients never send.
type progressEvent struct {
	Type    string `json:"type"` // "start", "update", "finish", "summary"
	Total   int    `json:"total,omitempty"`
	Current int    `json:"current,omitempty"`
	Message string `json:"message,omitempty"`
}

// hub tracks connected dashboard WebSocket clients and broadcasts progress
// events to all of them.
type hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newHub() *hub {
	return &hub{conns: make(map[*websocket.Conn]struct{})}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

func (h *hub) broadcast(ev progressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("dashboard: websocket write: %v", err)
		}
	}
}

// handleWebSocket upgrades the connection and registers it with the hub.
// The read loop exists only to detect the client going away; this socket
// never expects incoming messages.
func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("dashboard: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	d.hub.add(conn)
	defer d.hub.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("dashboard: websocket read: %v", err)
			}
			return
		}
	}
}
