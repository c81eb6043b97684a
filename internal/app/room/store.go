package room

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the addressed room does not exist in the store.
var ErrNotFound = errors.New("room not found")

// Store is the persistence interface consumed by the signaling relay.
//
// Implementations must keep every mutation atomic per room: Create is an
// idempotent upsert that never clobbers an existing document, and the
// participant/message operations are single append/filter steps rather than
// whole-document read-modify-write cycles, so concurrent joins and signals
// from different connections cannot lose updates.
type Store interface {
	// FindByID returns the room document or ErrNotFound.
	FindByID(ctx context.Context, roomID string) (*Room, error)

	// Create inserts the room if absent. Creating an existing room is a
	// harmless no-op; its participants and messages are left untouched.
	Create(ctx context.Context, r *Room) error

	// AddParticipant appends p to the room's roster unless a participant with
	// the same connection id is already present. ErrNotFound if the room is
	// missing.
	AddParticipant(ctx context.Context, roomID string, p Participant) error

	// RemoveParticipant removes every participant matching userID. Removing
	// from a missing room, or a user that is not a member, is a no-op.
	RemoveParticipant(ctx context.Context, roomID string, userID string) error

	// AddMessage appends rec to the room's message history. ErrNotFound if
	// the room is missing.
	AddMessage(ctx context.Context, roomID string, rec SignalRecord) error
}
