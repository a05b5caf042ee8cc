package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studiocast/relay/internal/api"
	"github.com/studiocast/relay/internal/domain"
	"github.com/studiocast/relay/internal/metrics"
	"github.com/studiocast/relay/internal/sockets"
)

// RelayService routes signaling envelopes between the members of a room.
// It owns the addressing rules: the from field on every relayed envelope
// is the server-assigned user id of the actual sender, and recipients are
// resolved against room membership at the instant of processing.
//
// Membership snapshots come out of the directory as copies, so no
// directory lock is held while writing to a socket.
type RelayService struct {
	directory domain.RoomDirectory
	pool      *sockets.SocketPool
}

func NewRelayService(directory domain.RoomDirectory, pool *sockets.SocketPool) *RelayService {
	return &RelayService{
		directory: directory,
		pool:      pool,
	}
}

type JoinResult struct {
	UserID   string
	RoomID   string
	Existing []domain.Member
}

// Join registers the connection in the requested room, acks it with the
// member snapshot taken at the instant of join, and announces it to the
// other members. A connection that was already in a room is moved: the
// abandoned room is cleaned up and notified as if the connection had left.
func (s *RelayService) Join(connID string, env api.ClientEnvelope, rtc *api.PeerConnectionConfig) JoinResult {
	userID := env.UserID
	if userID == "" {
		userID = generateUserID()
	}

	member := domain.Member{
		ConnID:      connID,
		UserID:      userID,
		DisplayName: env.UserName,
		RoomID:      env.RoomID,
		JoinedAt:    time.Now(),
	}

	// The snapshot comes out of the same lock acquisition that adds the
	// member, so concurrent joiners cannot both see each other.
	existing, previous, moved := s.directory.Join(member)
	if moved && previous.RoomID != member.RoomID {
		s.notifyLeft(previous)
	}

	existingIDs := api.UserIDs(existing)
	existingNamed := api.ToUserInfos(existing)
	s.send(connID, api.ServerEnvelope{
		Type:                   api.EventJoined,
		UserID:                 userID,
		RoomID:                 member.RoomID,
		ExistingUsers:          &existingIDs,
		ExistingUsersWithNames: &existingNamed,
		RTCConfig:              rtc,
	})

	announcement := api.ServerEnvelope{
		Type:     api.EventUserJoined,
		UserID:   userID,
		UserName: member.DisplayName,
	}
	for _, m := range existing {
		s.send(m.ConnID, announcement)
	}

	metrics.JoinsTotal.Inc()

	return JoinResult{UserID: userID, RoomID: member.RoomID, Existing: existing}
}

// Relay forwards an offer, answer or ice-candidate envelope. A target user
// id restricts delivery to that single member; without one the envelope is
// broadcast to every other member of the sender's room. The broadcast path
// is only correct for two-party rooms and is kept for older clients that
// never set a target.
func (s *RelayService) Relay(connID string, env api.ClientEnvelope) {
	sender, ok := s.directory.Get(connID)
	if !ok {
		metrics.EnvelopesDroppedTotal.WithLabelValues("not_joined").Inc()
		slog.Debug("dropping envelope from connection outside any room", "connID", connID, "type", env.Type)
		return
	}

	out := api.ServerEnvelope{
		Type:      env.Type,
		From:      sender.UserID,
		Offer:     env.Offer,
		Answer:    env.Answer,
		Candidate: env.Candidate,
	}

	if env.To != "" {
		target, err := s.directory.FindInRoom(sender.RoomID, env.To)
		if err != nil {
			// The peer likely disconnected mid-negotiation.
			metrics.EnvelopesDroppedTotal.WithLabelValues("target_gone").Inc()
			return
		}
		s.send(target.ConnID, out)
		return
	}

	for _, m := range s.directory.MembersOf(sender.RoomID, connID) {
		s.send(m.ConnID, out)
	}
}

// Leave removes the connection from its room and notifies the remaining
// members. Safe to call for connections that never joined or already left.
func (s *RelayService) Leave(connID string) {
	member, ok := s.directory.Leave(connID)
	if !ok {
		return
	}
	s.notifyLeft(member)
}

// CloseRoom force-disconnects every member of a room. The read loops of
// the closed connections unwind and run their normal leave cleanup.
func (s *RelayService) CloseRoom(roomID string) error {
	members := s.directory.MembersOf(roomID, "")
	if len(members) == 0 {
		return fmt.Errorf("closing room %q: %w", roomID, domain.ErrRoomNotFound)
	}
	for _, m := range members {
		s.pool.CloseSocket(sockets.SocketID(m.ConnID))
	}
	return nil
}

func (s *RelayService) notifyLeft(member domain.Member) {
	note := api.ServerEnvelope{
		Type:   api.EventUserLeft,
		UserID: member.UserID,
	}
	for _, m := range s.directory.MembersOf(member.RoomID, member.ConnID) {
		s.send(m.ConnID, note)
	}
}

func (s *RelayService) send(connID string, env api.ServerEnvelope) {
	soc := s.pool.Get(sockets.SocketID(connID))
	if soc == nil || !soc.Open() {
		// Mid-teardown; the lifecycle cleanup reconciles membership.
		metrics.EnvelopesDroppedTotal.WithLabelValues("transport_closed").Inc()
		return
	}
	if err := soc.WriteJSON(env); err != nil {
		metrics.EnvelopesDroppedTotal.WithLabelValues("write_failed").Inc()
		slog.Debug("failed to deliver envelope", "connID", connID, "type", env.Type, "error", err)
		return
	}
	metrics.SignalingMessagesTotal.WithLabelValues(string(env.Type), "out").Inc()
}

func generateUserID() string {
	return fmt.Sprintf("user_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
