package signalling

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/studiocast/relay/internal/api"
	"github.com/studiocast/relay/internal/config"
	"github.com/studiocast/relay/internal/metrics"
	"github.com/studiocast/relay/internal/service"
)

// connState tracks where a connection is in its lifecycle. Signaling
// envelopes are only dispatched once the connection has joined a room.
type connState int

const (
	stateConnecting connState = iota
	stateJoined
)

type ClientHandler struct {
	cfg            *config.Manager
	relay          *service.RelayService
	sessionHandler *SessionHandler
}

func NewClientHandler(cfg *config.Manager, relay *service.RelayService, sessionHandler *SessionHandler) *ClientHandler {
	return &ClientHandler{
		cfg:            cfg,
		relay:          relay,
		sessionHandler: sessionHandler,
	}
}

// HandleSocket drives one client connection from transport accept to
// close. Malformed frames are answered with an error envelope and the
// connection keeps going; a transport error ends the loop, and cleanup
// removes the connection from its room exactly once.
func (h *ClientHandler) HandleSocket(c *websocket.Conn) {
	session := h.sessionHandler.Register(c)
	defer session.Cleanup()

	pingInterval := time.Duration(h.cfg.Get().Server.PingInterval) * time.Millisecond
	keepalive := NewKeepaliveLoop(session.Socket, session.ID, pingInterval)
	keepalive.Start()
	defer keepalive.Stop()

	state := stateConnecting
	defer h.relay.Leave(string(session.ID))

	for {
		data, err := session.Socket.ReadMessage()
		if err != nil {
			slog.Debug("client disconnected", "socketID", session.ID)
			break
		}

		var env api.ClientEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			metrics.MalformedFramesTotal.Inc()
			slog.Warn("malformed frame", "socketID", session.ID, "error", err)
			_ = session.Socket.WriteJSON(api.ServerEnvelope{
				Type:    api.EventError,
				Message: "invalid message: " + err.Error(),
			})
			continue
		}

		state = h.processEnvelope(session, state, env)
	}
}

func (h *ClientHandler) processEnvelope(session *Session, state connState, env api.ClientEnvelope) connState {
	metrics.SignalingMessagesTotal.WithLabelValues(string(env.Type), "in").Inc()

	switch env.Type {
	case api.EventJoinRoom:
		if env.RoomID == "" {
			_ = session.Socket.WriteJSON(api.ServerEnvelope{
				Type:    api.EventError,
				Message: "roomId is required to join",
			})
			return state
		}
		cfg := h.cfg.Get()
		result := h.relay.Join(string(session.ID), env, &cfg.WebRTC.PeerConnectionConfig)
		slog.Info("user joined room",
			"socketID", session.ID, "userID", result.UserID, "roomID", result.RoomID,
			"peers", len(result.Existing))
		return stateJoined

	case api.EventOffer, api.EventAnswer, api.EventICECandidate:
		if state != stateJoined {
			metrics.EnvelopesDroppedTotal.WithLabelValues("not_joined").Inc()
			slog.Debug("dropping signaling envelope before join", "type", env.Type, "socketID", session.ID)
			return state
		}
		h.relay.Relay(string(session.ID), env)

	default:
		slog.Warn("unknown message type", "type", env.Type, "socketID", session.ID)
	}
	return state
}
