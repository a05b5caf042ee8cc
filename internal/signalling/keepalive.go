package signalling

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/studiocast/relay/internal/sockets"
)

// KeepaliveLoop pings a client connection at a fixed interval so that
// idle signaling sessions survive proxies and NAT timeouts. A failed ping
// stops the loop; the read loop observes the dead transport on its own.
type KeepaliveLoop struct {
	socket   sockets.Socket
	socketID sockets.SocketID
	ticker   *time.Ticker
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewKeepaliveLoop(socket sockets.Socket, socketID sockets.SocketID, interval time.Duration) *KeepaliveLoop {
	ctx, cancel := context.WithCancel(context.Background())
	return &KeepaliveLoop{
		socket:   socket,
		socketID: socketID,
		ticker:   time.NewTicker(interval),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (l *KeepaliveLoop) Start() {
	l.wg.Add(1)
	go l.pingLoop()
}

func (l *KeepaliveLoop) Stop() {
	l.cancel()
	l.ticker.Stop()
	l.wg.Wait()
}

func (l *KeepaliveLoop) pingLoop() {
	defer l.wg.Done()

	for {
		select {
		case <-l.ticker.C:
			if err := l.socket.Ping(); err != nil {
				slog.Debug("keepalive ping failed", "socketID", l.socketID, "error", err)
				return
			}
		case <-l.ctx.Done():
			return
		}
	}
}
