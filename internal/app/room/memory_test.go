package room

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_FindMissing(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.FindByID(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_CreateIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Create(ctx, &Room{RoomID: "room-1", CreatedBy: "u1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.AddParticipant(ctx, "room-1", Participant{ConnectionID: "c1", UserID: "u1"}); err != nil {
		t.Fatalf("add participant: %v", err)
	}

	// A racing second create must not clobber the existing document.
	if err := s.Create(ctx, &Room{RoomID: "room-1", CreatedBy: "u2"}); err != nil {
		t.Fatalf("second create: %v", err)
	}

	doc, err := s.FindByID(ctx, "room-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if doc.CreatedBy != "u1" {
		t.Fatalf("existing document must be preserved, got creator %s", doc.CreatedBy)
	}
	if len(doc.Participants) != 1 {
		t.Fatalf("roster must be preserved, got %d entries", len(doc.Participants))
	}
	if doc.Status != StatusActive {
		t.Fatalf("expected active status, got %s", doc.Status)
	}
	if doc.CreatedAt.IsZero() {
		t.Fatal("created_at must be stamped")
	}
}

func TestMemoryStore_AddParticipant(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.AddParticipant(ctx, "nope", Participant{ConnectionID: "c1"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for a missing room, got %v", err)
	}

	if err := s.Create(ctx, &Room{RoomID: "room-1", CreatedBy: "u1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	p := Participant{ConnectionID: "c1", UserID: "u1", Role: "patient", JoinedAt: time.Now()}
	if err := s.AddParticipant(ctx, "room-1", p); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Same connection id again must not duplicate the entry.
	if err := s.AddParticipant(ctx, "room-1", p); err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	// Same user on a second connection is a distinct entry.
	if err := s.AddParticipant(ctx, "room-1", Participant{ConnectionID: "c2", UserID: "u1", Role: "patient"}); err != nil {
		t.Fatalf("second connection add: %v", err)
	}

	doc, _ := s.FindByID(ctx, "room-1")
	if len(doc.Participants) != 2 {
		t.Fatalf("expected 2 roster entries, got %d", len(doc.Participants))
	}
}

func TestMemoryStore_RemoveParticipant(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// Missing room and absent user are both silent no-ops.
	if err := s.RemoveParticipant(ctx, "nope", "u1"); err != nil {
		t.Fatalf("remove from missing room: %v", err)
	}

	if err := s.Create(ctx, &Room{RoomID: "room-1", CreatedBy: "u1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	s.AddParticipant(ctx, "room-1", Participant{ConnectionID: "c1", UserID: "u1"})
	s.AddParticipant(ctx, "room-1", Participant{ConnectionID: "c2", UserID: "u1"})
	s.AddParticipant(ctx, "room-1", Participant{ConnectionID: "c3", UserID: "u2"})

	// Every entry for the user goes, across all of that user's connections.
	if err := s.RemoveParticipant(ctx, "room-1", "u1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	doc, _ := s.FindByID(ctx, "room-1")
	if len(doc.Participants) != 1 || doc.Participants[0].UserID != "u2" {
		t.Fatalf("expected only u2 left, got %+v", doc.Participants)
	}

	if err := s.RemoveParticipant(ctx, "room-1", "u1"); err != nil {
		t.Fatalf("second remove must be a no-op: %v", err)
	}
}

func TestMemoryStore_AddMessage(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := SignalRecord{
		UserID:    "u1",
		Role:      "patient",
		Timestamp: time.Now(),
		Signal:    json.RawMessage(`{"type":"offer"}`),
		TargetID:  "u2",
	}

	if err := s.AddMessage(ctx, "nope", rec); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for a missing room, got %v", err)
	}

	if err := s.Create(ctx, &Room{RoomID: "room-1", CreatedBy: "u1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.AddMessage(ctx, "room-1", rec); err != nil {
		t.Fatalf("add message: %v", err)
	}

	doc, _ := s.FindByID(ctx, "room-1")
	if len(doc.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(doc.Messages))
	}
	if doc.Messages[0].TargetID != "u2" {
		t.Fatalf("bad record: %+v", doc.Messages[0])
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Create(ctx, &Room{RoomID: "room-1", CreatedBy: "u1"})
	s.AddParticipant(ctx, "room-1", Participant{ConnectionID: "c1", UserID: "u1"})

	doc, _ := s.FindByID(ctx, "room-1")
	doc.Participants[0].UserID = "tampered"
	doc.Status = StatusClosed

	fresh, _ := s.FindByID(ctx, "room-1")
	if fresh.Participants[0].UserID != "u1" || fresh.Status != StatusActive {
		t.Fatal("mutating a returned document must not affect the store")
	}
}

func TestMemoryStore_ConcurrentAddParticipant(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Create(ctx, &Room{RoomID: "room-1", CreatedBy: "u0"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	const n = 30

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := Participant{
				ConnectionID: fmt.Sprintf("conn-%d", i),
				UserID:       fmt.Sprintf("user-%d", i),
				Role:         "patient",
			}
			if err := s.AddParticipant(ctx, "room-1", p); err != nil {
				t.Errorf("add participant %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	doc, _ := s.FindByID(ctx, "room-1")
	if len(doc.Participants) != n {
		t.Fatalf("expected %d roster entries, got %d", n, len(doc.Participants))
	}
}

func TestFindParticipant(t *testing.T) {
	r := &Room{
		RoomID: "room-1",
		Participants: []Participant{
			{ConnectionID: "c1", UserID: "u1", Role: "patient"},
			{ConnectionID: "c2", UserID: "u2", Role: "doctor"},
		},
	}

	if p := r.FindParticipant("u2"); p == nil || p.ConnectionID != "c2" {
		t.Fatalf("expected u2's entry, got %+v", p)
	}
	if p := r.FindParticipant("ghost"); p != nil {
		t.Fatalf("expected nil for an unknown user, got %+v", p)
	}
}
