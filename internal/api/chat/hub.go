package chat

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

// Hub tracks open chat sockets by the user that opened them
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]string
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]string),
	}
}

// Register adds a socket opened by userID
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[conn] = userID
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.conns, conn)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.conns)
}

// BroadcastTo writes v to every socket opened by userID and returns how
// many writes succeeded. Failed sockets are left for their read loop to clean up.
func (h *Hub) BroadcastTo(ctx context.Context, userID string, v any) int {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn, owner := range h.conns {
		if owner == userID {
			conns = append(conns, conn)
		}
	}
	h.mu.RUnlock()

	delivered := 0
	for _, conn := range conns {
		if err := send(ctx, conn, v); err != nil {
			ctxzap.Debug(ctx, "failed to write to chat socket", zap.Error(err))
			continue
		}
		delivered++
	}

	return delivered
}

// CloseAll closes every socket, used on shutdown
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(h.conns, conn)
	}
}

func send(ctx context.Context, conn *websocket.Conn, v any) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return wsjson.Write(writeCtx, conn, v)
}
