package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lmittmann/tint"
	"github.com/studiocast/relay/internal/config"
	"github.com/studiocast/relay/internal/metrics"
	"github.com/studiocast/relay/internal/signalling"
)

func main() {
	configDir := flag.String("config", "conf", "directory with configuration files")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})))

	cfgManager, err := config.NewManager(*configDir)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	cfgManager.SetUpdateCallback(func(cfg *config.AppConfig) {
		slog.Info("live configuration applied",
			"corsOrigin", cfg.Server.CORSOrigin,
			"pingInterval", cfg.Server.PingInterval,
			"iceServers", len(cfg.WebRTC.PeerConnectionConfig.ICEServers))
	})

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	server := signalling.NewServer(cfgManager, app)
	defer server.Close()
	server.SetupRoutes()

	metrics.StartTime.Set(float64(time.Now().Unix()))

	cfg := cfgManager.Get()
	addr := ":" + strconv.Itoa(cfg.Server.Port)

	if cfg.Security.TLSCrtFile != nil && cfg.Security.TLSKeyFile != nil {
		slog.Info("signaling relay listening with TLS", "addr", addr)
		if err := app.ListenTLS(addr, *cfg.Security.TLSCrtFile, *cfg.Security.TLSKeyFile); err != nil {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	slog.Info("signaling relay listening", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
