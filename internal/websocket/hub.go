package websocket

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/store"
)

const broadcastBuffer = 64

// envelope is a message addressed to one user, or to everyone when userID
// is empty.
type envelope struct {
	userID string
	msg    models.Message
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	mu          sync.Mutex
	connections map[*websocket.Conn]string

	broadcast chan envelope
	done      chan struct{}
	closeOnce sync.Once

	upgrader websocket.Upgrader

	// resolveUser maps an upgrade request to the signed-in user, "" for
	// anonymous clients.
	resolveUser func(*http.Request) string
}

// NewHub creates a new hub for managing WebSocket connections
func NewHub(resolveUser func(*http.Request) string) *Hub {
	if resolveUser == nil {
		resolveUser = func(*http.Request) string { return "" }
	}
	return &Hub{
		connections: make(map[*websocket.Conn]string),
		broadcast:   make(chan envelope, broadcastBuffer),
		done:        make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		resolveUser: resolveUser,
	}
}

// Run delivers queued messages until Close is called.
func (h *Hub) Run() {
	for {
		select {
		case env := <-h.broadcast:
			h.deliver(env)
		case <-h.done:
			h.mu.Lock()
			for conn := range h.connections {
				conn.Close()
				delete(h.connections, conn)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Close stops Run and disconnects every client. It is safe to call twice.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *Hub) deliver(env envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, userID := range h.connections {
		if env.userID != "" && env.userID != userID {
			continue
		}
		if err := conn.WriteJSON(env.msg); err != nil {
			zap.L().Warn("Error sending message to client", zap.Error(err))
			conn.Close()
			delete(h.connections, conn)
		}
	}
}

// HandleWebSocket upgrades an HTTP connection to WebSocket
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := h.resolveUser(r)
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("Error upgrading to WebSocket", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.connections[ws] = userID
	h.mu.Unlock()

	// Read until the client goes away to notice disconnects.
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.connections, ws)
			h.mu.Unlock()
			ws.Close()
		}()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}

// Broadcast sends a message to every connected client
func (h *Hub) Broadcast(msg models.Message) {
	h.enqueue(envelope{msg: msg})
}

// BroadcastTo sends a message to the clients signed in as userID.
func (h *Hub) BroadcastTo(userID string, msg models.Message) {
	h.enqueue(envelope{userID: userID, msg: msg})
}

// enqueue drops the message when the queue is full so store writers never
// block on slow clients.
func (h *Hub) enqueue(env envelope) {
	select {
	case h.broadcast <- env:
	default:
		zap.L().Warn("Dropping websocket message, queue full", zap.String("type", env.msg.Type))
	}
}

// StoreChanged publishes a store mutation to the owning user's clients.
// Changes without an owner (reset, whole-table replace) go to everyone.
func (h *Hub) StoreChanged(change store.Change) {
	msg := models.Message{Type: models.MessageStoreChange, Content: change}
	if change.UserID == "" {
		h.Broadcast(msg)
		return
	}
	h.BroadcastTo(change.UserID, msg)
}
