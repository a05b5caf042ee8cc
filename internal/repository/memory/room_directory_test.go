package memory

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/studiocast/relay/internal/domain"
)

func member(connID, userID, roomID string) domain.Member {
	return domain.Member{ConnID: connID, UserID: userID, RoomID: roomID}
}

func userIDs(members []domain.Member) map[string]bool {
	ids := make(map[string]bool, len(members))
	for _, m := range members {
		ids[m.UserID] = true
	}
	return ids
}

func TestJoinAndMembersOf(t *testing.T) {
	d := NewRoomDirectory()

	d.Join(member("c1", "alice", "r1"))
	d.Join(member("c2", "bob", "r1"))
	d.Join(member("c3", "carol", "r2"))

	got := userIDs(d.MembersOf("r1", ""))
	if len(got) != 2 || !got["alice"] || !got["bob"] {
		t.Fatalf("unexpected members of r1: %v", got)
	}

	if members := d.MembersOf("r1", "c1"); len(members) != 1 || members[0].UserID != "bob" {
		t.Fatalf("exclusion did not apply: %v", members)
	}

	if d.RoomCount() != 2 {
		t.Fatalf("expected 2 rooms, got %d", d.RoomCount())
	}
}

func TestUnknownRoomYieldsEmptyResults(t *testing.T) {
	d := NewRoomDirectory()

	if members := d.MembersOf("nowhere", ""); len(members) != 0 {
		t.Fatalf("expected no members, got %v", members)
	}
	if _, err := d.FindInRoom("nowhere", "alice"); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestLeaveRemovesEmptyRoom(t *testing.T) {
	d := NewRoomDirectory()

	d.Join(member("c1", "alice", "r1"))
	d.Join(member("c2", "bob", "r1"))

	if m, ok := d.Leave("c1"); !ok || m.UserID != "alice" {
		t.Fatalf("leave c1 = (%v, %v)", m, ok)
	}
	if d.RoomCount() != 1 {
		t.Fatalf("room should survive with one member left")
	}

	d.Leave("c2")
	if d.RoomCount() != 0 {
		t.Fatalf("empty room must not persist")
	}
	if _, err := d.FindInRoom("r1", "alice"); err == nil {
		t.Fatalf("destroyed room is still searchable")
	}
}

func TestRoomIsRecreatedFresh(t *testing.T) {
	d := NewRoomDirectory()

	d.Join(member("c1", "alice", "r1"))
	d.Leave("c1")

	d.Join(member("c2", "bob", "r1"))
	got := userIDs(d.MembersOf("r1", ""))
	if len(got) != 1 || !got["bob"] {
		t.Fatalf("recreated room carries stale state: %v", got)
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	d := NewRoomDirectory()

	if _, ok := d.Leave("ghost"); ok {
		t.Fatalf("leave of unknown connection reported ok")
	}

	d.Join(member("c1", "alice", "r1"))
	d.Leave("c1")
	if _, ok := d.Leave("c1"); ok {
		t.Fatalf("second leave reported ok")
	}
}

func TestJoinMovesExistingConnection(t *testing.T) {
	d := NewRoomDirectory()

	d.Join(member("c1", "alice", "r1"))
	_, previous, moved := d.Join(member("c1", "alice", "r2"))

	if !moved || previous.RoomID != "r1" {
		t.Fatalf("expected move from r1, got (%v, %v)", previous, moved)
	}
	if len(d.MembersOf("r1", "")) != 0 {
		t.Fatalf("membership leaked in abandoned room")
	}
	if d.RoomCount() != 1 {
		t.Fatalf("abandoned empty room must be removed, have %d rooms", d.RoomCount())
	}
	if _, err := d.FindInRoom("r2", "alice"); err != nil {
		t.Fatalf("alice not found in new room: %v", err)
	}
}

func TestConcurrentJoinSnapshotsSerialize(t *testing.T) {
	// Two racing joins into the same room must serialize: the snapshot
	// each gets back comes out of the same lock acquisition that adds it,
	// so exactly one of the two sees the other.
	for i := 0; i < 500; i++ {
		d := NewRoomDirectory()
		start := make(chan struct{})
		snapshots := make([][]domain.Member, 2)

		var wg sync.WaitGroup
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func(j int) {
				defer wg.Done()
				<-start
				existing, _, _ := d.Join(member(fmt.Sprintf("c%d", j), fmt.Sprintf("u%d", j), "r1"))
				snapshots[j] = existing
			}(j)
		}
		close(start)
		wg.Wait()

		if total := len(snapshots[0]) + len(snapshots[1]); total != 1 {
			t.Fatalf("iteration %d: join snapshots are %v and %v, exactly one side should see the other",
				i, snapshots[0], snapshots[1])
		}
	}
}

func TestFindInRoom(t *testing.T) {
	d := NewRoomDirectory()

	d.Join(member("c1", "alice", "r1"))
	d.Join(member("c2", "bob", "r1"))

	m, err := d.FindInRoom("r1", "bob")
	if err != nil || m.ConnID != "c2" {
		t.Fatalf("FindInRoom(r1, bob) = (%v, %v)", m, err)
	}

	if _, err := d.FindInRoom("r1", "mallory"); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestRoomsListing(t *testing.T) {
	d := NewRoomDirectory()

	d.Join(member("c1", "alice", "r1"))
	d.Join(member("c2", "bob", "r1"))
	d.Join(member("c3", "carol", "r2"))

	rooms := d.Rooms()
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms))
	}
	byID := make(map[string]int)
	for _, r := range rooms {
		byID[r.ID] = len(r.Members)
	}
	if byID["r1"] != 2 || byID["r2"] != 1 {
		t.Fatalf("unexpected room listing: %v", byID)
	}
}
