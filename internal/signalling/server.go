package signalling

import (
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/studiocast/relay/internal/config"
	"github.com/studiocast/relay/internal/domain"
	"github.com/studiocast/relay/internal/repository/memory"
	"github.com/studiocast/relay/internal/service"
	"github.com/studiocast/relay/internal/sockets"
	"github.com/studiocast/relay/internal/utils"
)

const statsReportInterval = time.Minute

// Server wires the room directory, the relay service and the websocket
// handlers onto a fiber application.
//
// Endpoints:
//   - GET /ws: signaling websocket, one per participant
//   - GET /health: liveness with current room count
//   - GET /metrics: prometheus exposition
//   - /api/admin/*: room inspection and control (basicauth + IP allowlist)
type Server struct {
	app           *fiber.App
	cfg           *config.Manager
	directory     domain.RoomDirectory
	relay         *service.RelayService
	clientSockets *sockets.SocketPool
	auth          *AuthHandler
	clientHandler *ClientHandler
	statsReporter utils.IntervalTimer
}

func NewServer(cfg *config.Manager, app *fiber.App) *Server {
	pool := sockets.NewSocketPool()
	directory := memory.NewRoomDirectory()
	relay := service.NewRelayService(directory, pool)

	// A connection that misses two keepalive rounds is considered dead.
	conf := cfg.Get()
	pongWait := 2 * time.Duration(conf.Server.PingInterval) * time.Millisecond
	sessions := NewSessionHandler(pool, conf.Relay.MaxMessageSize, pongWait)

	server := &Server{
		app:           app,
		cfg:           cfg,
		directory:     directory,
		relay:         relay,
		clientSockets: pool,
		auth:          NewAuthHandler(cfg),
		clientHandler: NewClientHandler(cfg, relay, sessions),
	}
	server.statsReporter = utils.SetIntervalTimer(statsReportInterval, server.reportStats)

	return server
}

// Close stops background work and drops all client connections. Safe to
// call once during shutdown.
func (s *Server) Close() {
	s.statsReporter.Stop()
	s.clientSockets.Close()
}

func (s *Server) SetupRoutes() {
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: s.cfg.Get().Server.CORSOrigin,
	}))

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"rooms":  s.directory.RoomCount(),
		})
	})

	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	s.setupClientSockets()
	s.setupAdminApi()
}

func (s *Server) setupClientSockets() {
	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	s.app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic in /ws handler", "error", err)
			}
		}()

		s.clientHandler.HandleSocket(c)
	}))
}

func (s *Server) reportStats() {
	slog.Info("relay stats",
		"rooms", s.directory.RoomCount(),
		"connections", s.clientSockets.Len())
}
