package memory

import (
	"sync"

	"github.com/studiocast/relay/internal/domain"
	"github.com/studiocast/relay/internal/metrics"
)

// RoomDirectory is the in-memory implementation of domain.RoomDirectory.
// All mutation is funneled through a single RWMutex; callers receive
// copies, so membership snapshots can be used after the lock is released.
type RoomDirectory struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]domain.Member // roomID -> connID -> member
	byConn map[string]string                   // connID -> roomID
}

func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{
		rooms:  make(map[string]map[string]domain.Member),
		byConn: make(map[string]string),
	}
}

func (d *RoomDirectory) Join(m domain.Member) ([]domain.Member, domain.Member, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var previous domain.Member
	moved := false
	if oldRoomID, ok := d.byConn[m.ConnID]; ok {
		previous = d.rooms[oldRoomID][m.ConnID]
		moved = true
		d.removeLocked(m.ConnID, oldRoomID)
	}

	room, ok := d.rooms[m.RoomID]
	if !ok {
		room = make(map[string]domain.Member)
		d.rooms[m.RoomID] = room
		metrics.RoomsCreatedTotal.Inc()
	}

	existing := make([]domain.Member, 0, len(room))
	for _, other := range room {
		existing = append(existing, other)
	}

	room[m.ConnID] = m
	d.byConn[m.ConnID] = m.RoomID
	metrics.ActiveRooms.Set(float64(len(d.rooms)))

	return existing, previous, moved
}

func (d *RoomDirectory) Leave(connID string) (domain.Member, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	roomID, ok := d.byConn[connID]
	if !ok {
		return domain.Member{}, false
	}
	member := d.rooms[roomID][connID]
	d.removeLocked(connID, roomID)
	metrics.ActiveRooms.Set(float64(len(d.rooms)))
	return member, true
}

// removeLocked detaches connID from roomID, deleting the room when its
// last member is gone. Caller must hold d.mu.
func (d *RoomDirectory) removeLocked(connID, roomID string) {
	delete(d.byConn, connID)
	room, ok := d.rooms[roomID]
	if !ok {
		return
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(d.rooms, roomID)
		metrics.RoomsDestroyedTotal.Inc()
	}
}

func (d *RoomDirectory) Get(connID string) (domain.Member, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	roomID, ok := d.byConn[connID]
	if !ok {
		return domain.Member{}, false
	}
	return d.rooms[roomID][connID], true
}

func (d *RoomDirectory) MembersOf(roomID, excludeConnID string) []domain.Member {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, ok := d.rooms[roomID]
	if !ok {
		return nil
	}
	members := make([]domain.Member, 0, len(room))
	for connID, m := range room {
		if connID == excludeConnID {
			continue
		}
		members = append(members, m)
	}
	return members
}

func (d *RoomDirectory) FindInRoom(roomID, userID string) (domain.Member, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, m := range d.rooms[roomID] {
		if m.UserID == userID {
			return m, nil
		}
	}
	return domain.Member{}, domain.ErrMemberNotFound
}

func (d *RoomDirectory) Rooms() []domain.RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rooms := make([]domain.RoomInfo, 0, len(d.rooms))
	for id, room := range d.rooms {
		members := make([]domain.Member, 0, len(room))
		for _, m := range room {
			members = append(members, m)
		}
		rooms = append(rooms, domain.RoomInfo{ID: id, Members: members})
	}
	return rooms
}

func (d *RoomDirectory) RoomCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}
