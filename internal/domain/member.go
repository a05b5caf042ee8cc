package domain

import (
	"errors"
	"time"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrRoomNotFound   = errors.New("room not found")
)

// Member is one joined signaling connection as recorded by the room
// directory. The directory holds members by value; the authoritative
// connection lifecycle is owned by the websocket handler, and membership
// is never used to decide whether a connection is alive.
type Member struct {
	ConnID      string
	UserID      string
	DisplayName string
	RoomID      string
	JoinedAt    time.Time
}

type RoomInfo struct {
	ID      string
	Members []Member
}

// RoomDirectory maps room ids to their member connections. A room is
// created on first join and removed as soon as its last member leaves;
// lookups against an unknown room yield empty results, not errors.
//
// A connection belongs to at most one room: joining while already a
// member of another room moves the connection, cleaning up the abandoned
// room if it became empty.
type RoomDirectory interface {
	// Join registers m and returns the other members of the target room
	// as observed at the instant of join, under the same lock that adds
	// m. Two concurrent joins therefore serialize: exactly one of them
	// sees the other in its snapshot.
	Join(m Member) (existing []Member, previous Member, moved bool)
	// Leave is idempotent: removing an unknown connection reports ok=false.
	Leave(connID string) (Member, bool)
	Get(connID string) (Member, bool)
	// MembersOf returns the members of roomID excluding excludeConnID.
	// Pass an empty excludeConnID to list everyone.
	MembersOf(roomID, excludeConnID string) []Member
	FindInRoom(roomID, userID string) (Member, error)
	Rooms() []RoomInfo
	RoomCount() int
}
