package sockets

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gofiber/contrib/websocket"
)

type SocketID string

var ErrSocketClosed = errors.New("socket is closed")

// Socket is the transport handle the relay routes envelopes through.
// Writes are serialized internally so the router and the keepalive loop
// may send from different goroutines.
type Socket interface {
	ReadMessage() ([]byte, error)
	WriteJSON(v interface{}) error
	Ping() error
	Open() bool
	Close() error
}

type socketImpl struct {
	ws     *websocket.Conn
	mu     sync.Mutex
	closed atomic.Bool
}

func NewSocket(conn *websocket.Conn) Socket {
	return &socketImpl{ws: conn}
}

func (s *socketImpl) ReadMessage() ([]byte, error) {
	_, data, err := s.ws.ReadMessage()
	if err != nil {
		s.closed.Store(true)
	}
	return data, err
}

func (s *socketImpl) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrSocketClosed
	}
	if err := s.ws.WriteJSON(v); err != nil {
		s.closed.Store(true)
		return err
	}
	return nil
}

func (s *socketImpl) Ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrSocketClosed
	}
	return s.ws.WriteMessage(websocket.PingMessage, nil)
}

func (s *socketImpl) Open() bool {
	return !s.closed.Load()
}

func (s *socketImpl) Close() error {
	s.closed.Store(true)
	return s.ws.Close()
}
