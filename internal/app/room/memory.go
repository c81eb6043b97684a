package room

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with the same semantics as the Postgres
// implementation. It backs development mode (no DATABASE_URL) and component
// tests. Documents are copied on the way in and out so callers never share
// slices with the store.
type MemoryStore struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*Room)}
}

// FindByID returns a copy of the room document or ErrNotFound.
func (s *MemoryStore) FindByID(ctx context.Context, roomID string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRoom(r), nil
}

// Create inserts the room if absent; an existing document is left untouched.
func (s *MemoryStore) Create(ctx context.Context, r *Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[r.RoomID]; ok {
		return nil
	}

	doc := copyRoom(r)
	if doc.Status == "" {
		doc.Status = StatusActive
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	doc.Participants = nil
	doc.Messages = nil

	s.rooms[r.RoomID] = doc
	return nil
}

// AddParticipant appends p unless its connection id is already present.
func (s *MemoryStore) AddParticipant(ctx context.Context, roomID string, p Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return ErrNotFound
	}

	for i := range r.Participants {
		if r.Participants[i].ConnectionID == p.ConnectionID {
			return nil
		}
	}

	r.Participants = append(r.Participants, p)
	return nil
}

// RemoveParticipant drops every roster entry matching userID; no-op when the
// room is missing or the user is not a member.
func (s *MemoryStore) RemoveParticipant(ctx context.Context, roomID string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil
	}

	kept := r.Participants[:0]
	for _, p := range r.Participants {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	r.Participants = kept
	return nil
}

// AddMessage appends rec to the room's history.
func (s *MemoryStore) AddMessage(ctx context.Context, roomID string, rec SignalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return ErrNotFound
	}

	r.Messages = append(r.Messages, rec)
	return nil
}

func copyRoom(r *Room) *Room {
	doc := &Room{
		RoomID:    r.RoomID,
		CreatedBy: r.CreatedBy,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
	doc.Participants = append([]Participant(nil), r.Participants...)
	doc.Messages = append([]SignalRecord(nil), r.Messages...)
	return doc
}
