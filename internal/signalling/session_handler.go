package signalling

import (
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/studiocast/relay/internal/metrics"
	"github.com/studiocast/relay/internal/sockets"
)

type Session struct {
	Socket  sockets.Socket
	ID      sockets.SocketID
	Cleanup func()
}

type SessionHandler struct {
	clientSockets  *sockets.SocketPool
	maxMessageSize int64
	pongWait       time.Duration
}

func NewSessionHandler(clientSockets *sockets.SocketPool, maxMessageSize int64, pongWait time.Duration) *SessionHandler {
	return &SessionHandler{
		clientSockets:  clientSockets,
		maxMessageSize: maxMessageSize,
		pongWait:       pongWait,
	}
}

func (h *SessionHandler) Register(conn *websocket.Conn) *Session {
	id := sockets.SocketID(uuid.NewString())
	if h.maxMessageSize > 0 {
		conn.SetReadLimit(h.maxMessageSize)
	}
	if h.pongWait > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(h.pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(h.pongWait))
		})
	}
	socket := sockets.NewSocket(conn)
	h.clientSockets.Add(id, socket)

	metrics.ActiveConnections.Inc()
	metrics.ConnectionsTotal.Inc()

	cleanup := func() {
		metrics.ActiveConnections.Dec()
		metrics.DisconnectionsTotal.Inc()
		h.clientSockets.CloseSocket(id)
	}

	slog.Info("client session started", "socketID", id, "remote", conn.NetConn().RemoteAddr())

	return &Session{
		Socket:  socket,
		ID:      id,
		Cleanup: cleanup,
	}
}
