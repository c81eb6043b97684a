package signaling

import (
	"errors"
	"sort"
	"testing"
)

func TestHub_JoinAndBroadcast(t *testing.T) {
	h := NewHub()
	a := newFakePeer("conn-a")
	b := newFakePeer("conn-b")
	c := newFakePeer("conn-c")
	h.Join("room-1", a)
	h.Join("room-1", b)
	h.Join("room-1", c)

	if got := h.RoomSize("room-1"); got != 3 {
		t.Fatalf("expected room size 3, got %d", got)
	}

	h.Broadcast("room-1", "conn-a", "ping", nil)

	if a.count("ping") != 0 {
		t.Fatal("excluded peer must not receive the broadcast")
	}
	if b.count("ping") != 1 || c.count("ping") != 1 {
		t.Fatalf("other peers must each receive once: b=%d c=%d", b.count("ping"), c.count("ping"))
	}

	h.Broadcast("room-1", "", "ping", nil)
	if a.count("ping") != 1 {
		t.Fatal("empty exclusion must reach the whole room")
	}
}

func TestHub_JoinTwiceIsNoOp(t *testing.T) {
	h := NewHub()
	a := newFakePeer("conn-a")
	h.Join("room-1", a)
	h.Join("room-1", a)

	if got := h.RoomSize("room-1"); got != 1 {
		t.Fatalf("expected room size 1, got %d", got)
	}
}

func TestHub_Leave(t *testing.T) {
	h := NewHub()
	a := newFakePeer("conn-a")
	b := newFakePeer("conn-b")
	h.Join("room-1", a)
	h.Join("room-1", b)

	if !h.Leave("room-1", "conn-a") {
		t.Fatal("first leave must report membership")
	}
	if h.Leave("room-1", "conn-a") {
		t.Fatal("second leave must report non-membership")
	}
	if h.Leave("room-99", "conn-b") {
		t.Fatal("leaving an unknown room must report non-membership")
	}

	h.Broadcast("room-1", "", "ping", nil)
	if a.count("ping") != 0 {
		t.Fatal("departed peer must not receive broadcasts")
	}
	if b.count("ping") != 1 {
		t.Fatal("remaining peer must still receive broadcasts")
	}
}

func TestHub_LeaveAll(t *testing.T) {
	h := NewHub()
	a := newFakePeer("conn-a")
	h.Join("room-1", a)
	h.Join("room-2", a)

	left := h.LeaveAll("conn-a")
	sort.Strings(left)
	if len(left) != 2 || left[0] != "room-1" || left[1] != "room-2" {
		t.Fatalf("expected both rooms, got %v", left)
	}

	if h.RoomSize("room-1") != 0 || h.RoomSize("room-2") != 0 {
		t.Fatal("groups must be empty after LeaveAll")
	}

	if got := h.LeaveAll("conn-a"); len(got) != 0 {
		t.Fatalf("second LeaveAll must return nothing, got %v", got)
	}
}

func TestHub_SendToConn(t *testing.T) {
	h := NewHub()
	a := newFakePeer("conn-a")
	b := newFakePeer("conn-b")
	h.Join("room-1", a)
	h.Join("room-1", b)

	if !h.SendToConn("room-1", "conn-b", "ping", nil) {
		t.Fatal("send to a live member must succeed")
	}
	if b.count("ping") != 1 {
		t.Fatalf("target expected 1 event, got %d", b.count("ping"))
	}
	if a.count("ping") != 0 {
		t.Fatal("other members must receive nothing")
	}

	if h.SendToConn("room-1", "conn-ghost", "ping", nil) {
		t.Fatal("send to an unknown connection must report false")
	}
	if h.SendToConn("room-99", "conn-a", "ping", nil) {
		t.Fatal("send into an unknown room must report false")
	}
}

// brokenPeer always rejects sends, like a connection with a full queue.
type brokenPeer struct {
	id string
}

func (p *brokenPeer) ID() string                     { return p.id }
func (p *brokenPeer) Send(event string, _ any) error { return errors.New("queue full") }

func TestHub_BroadcastSurvivesFailingPeer(t *testing.T) {
	h := NewHub()
	broken := &brokenPeer{id: "conn-broken"}
	ok := newFakePeer("conn-ok")
	h.Join("room-1", broken)
	h.Join("room-1", ok)

	h.Broadcast("room-1", "", "ping", nil)

	if ok.count("ping") != 1 {
		t.Fatal("a failing peer must not block delivery to the rest of the room")
	}
}
