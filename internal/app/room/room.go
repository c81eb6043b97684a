/*
Package room contains the persistence layer for video consultation rooms.

A room is a single document holding its participant roster and signaling
message history. Rooms are created lazily when the first participant joins
and are mutated only through atomic per-field operations.
*/
package room

import (
	"encoding/json"
	"time"
)

// Room statuses. Nothing in the relay sets a room closed; the field exists so
// operational tooling can retire rooms out of band.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// Room is the persisted document for one signaling session.
type Room struct {
	RoomID       string         `json:"room_id"`
	CreatedBy    string         `json:"created_by"`
	Status       string         `json:"status"`
	Participants []Participant  `json:"participants"`
	Messages     []SignalRecord `json:"messages"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Participant records one live connection's membership in a room.
// ConnectionID is unique per transport connection; UserID may repeat across
// reconnects of the same account.
type Participant struct {
	ConnectionID string    `json:"connection_id"`
	UserID       string    `json:"user_id"`
	Role         string    `json:"role"`
	JoinedAt     time.Time `json:"joined_at"`
}

// SignalRecord is one entry of a room's append-only message history.
// Signal is opaque; the server never interprets it.
type SignalRecord struct {
	UserID    string          `json:"user_id"`
	Role      string          `json:"role"`
	Timestamp time.Time       `json:"timestamp"`
	Signal    json.RawMessage `json:"signal"`
	TargetID  string          `json:"target_id,omitempty"`
}

// FindParticipant returns the first participant whose UserID matches, or nil.
func (r *Room) FindParticipant(userID string) *Participant {
	for i := range r.Participants {
		if r.Participants[i].UserID == userID {
			return &r.Participants[i]
		}
	}
	return nil
}
