package api

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRelayedEnvelopeOmitsMembershipFields(t *testing.T) {
	for _, env := range []ServerEnvelope{
		{Type: EventUserLeft, UserID: "alice"},
		{Type: EventOffer, From: "alice", Offer: json.RawMessage(`{}`)},
		{Type: EventError, Message: "invalid message"},
	} {
		raw, err := json.Marshal(env)
		if err != nil {
			t.Fatalf("marshal %s: %v", env.Type, err)
		}
		if strings.Contains(string(raw), "existingUsers") {
			t.Errorf("%s frame carries membership fields: %s", env.Type, raw)
		}
	}
}

func TestJoinedAckKeepsExplicitEmptyLists(t *testing.T) {
	ids := []string{}
	named := []UserInfo{}
	raw, err := json.Marshal(ServerEnvelope{
		Type:                   EventJoined,
		UserID:                 "alice",
		RoomID:                 "r1",
		ExistingUsers:          &ids,
		ExistingUsersWithNames: &named,
	})
	if err != nil {
		t.Fatalf("marshal joined: %v", err)
	}
	if !strings.Contains(string(raw), `"existingUsers":[]`) {
		t.Errorf("joined ack dropped the empty existingUsers list: %s", raw)
	}
	if !strings.Contains(string(raw), `"existingUsersWithNames":[]`) {
		t.Errorf("joined ack dropped the empty existingUsersWithNames list: %s", raw)
	}
}
