package api

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
)

type EventType string

const (
	EventJoinRoom     = EventType("join-room")
	EventJoined       = EventType("joined")
	EventUserJoined   = EventType("user-joined")
	EventUserLeft     = EventType("user-left")
	EventOffer        = EventType("offer")
	EventAnswer       = EventType("answer")
	EventICECandidate = EventType("ice-candidate")
	EventError        = EventType("error")
)

// ClientEnvelope is one inbound frame. Which fields are set depends on
// Type; the offer/answer/candidate payloads are opaque to the relay and
// are passed through byte-for-byte.
type ClientEnvelope struct {
	Type      EventType       `json:"type"`
	RoomID    string          `json:"roomId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	UserName  string          `json:"userName,omitempty"`
	To        string          `json:"to,omitempty"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// ServerEnvelope is one outbound frame. The member snapshot fields are
// pointers so that only the "joined" ack carries them, yet an ack for an
// empty room still serializes explicit empty lists.
type ServerEnvelope struct {
	Type                   EventType             `json:"type"`
	UserID                 string                `json:"userId,omitempty"`
	UserName               string                `json:"userName,omitempty"`
	RoomID                 string                `json:"roomId,omitempty"`
	From                   string                `json:"from,omitempty"`
	ExistingUsers          *[]string             `json:"existingUsers,omitempty"`
	ExistingUsersWithNames *[]UserInfo           `json:"existingUsersWithNames,omitempty"`
	Offer                  json.RawMessage       `json:"offer,omitempty"`
	Answer                 json.RawMessage       `json:"answer,omitempty"`
	Candidate              json.RawMessage       `json:"candidate,omitempty"`
	RTCConfig              *PeerConnectionConfig `json:"rtcConfig,omitempty"`
	Message                string                `json:"message,omitempty"`
}

type UserInfo struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type RoomStatus struct {
	RoomID      string     `json:"roomId"`
	MemberCount int        `json:"memberCount"`
	Members     []UserInfo `json:"members"`
}

// PeerConnectionConfig is the RTCPeerConnection configuration advertised
// to clients in the joined ack.
type PeerConnectionConfig struct {
	ICEServers []webrtc.ICEServer `json:"iceServers" yaml:"iceServers"`
}

func DefaultPeerConnectionConfig() PeerConnectionConfig {
	return PeerConnectionConfig{
		ICEServers: []webrtc.ICEServer{
			{URLs: []string{"stun:stun.l.google.com:19302"}},
			{URLs: []string{"stun:stun1.l.google.com:19302"}},
		},
	}
}
