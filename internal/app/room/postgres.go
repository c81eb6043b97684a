package room

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists rooms as single jsonb-document rows.
//
// All mutations are single SQL statements so that each one is atomic per row;
// jsonb concatenation implements the append-only semantics the relay relies
// on under concurrent joins.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// FindByID returns the room document or ErrNotFound.
func (s *PostgresStore) FindByID(ctx context.Context, roomID string) (*Room, error) {
	const q = `
		SELECT room_id, created_by, status, participants, messages, created_at
		FROM rooms WHERE room_id = $1`

	var (
		r                 Room
		participantsBytes []byte
		messagesBytes     []byte
	)

	err := s.pool.QueryRow(ctx, q, roomID).Scan(
		&r.RoomID, &r.CreatedBy, &r.Status, &participantsBytes, &messagesBytes, &r.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find room %q: %w", roomID, err)
	}

	if err := json.Unmarshal(participantsBytes, &r.Participants); err != nil {
		return nil, fmt.Errorf("decode participants of room %q: %w", roomID, err)
	}
	if err := json.Unmarshal(messagesBytes, &r.Messages); err != nil {
		return nil, fmt.Errorf("decode messages of room %q: %w", roomID, err)
	}

	return &r, nil
}

// Create inserts the room if absent. ON CONFLICT DO NOTHING makes racing
// creates of the same room id an idempotent upsert that never overwrites the
// participants or messages of the winner.
func (s *PostgresStore) Create(ctx context.Context, r *Room) error {
	const q = `
		INSERT INTO rooms (room_id, created_by, status, participants, messages, created_at)
		VALUES ($1, $2, $3, '[]'::jsonb, '[]'::jsonb, $4)
		ON CONFLICT (room_id) DO NOTHING`

	status := r.Status
	if status == "" {
		status = StatusActive
	}
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if _, err := s.pool.Exec(ctx, q, r.RoomID, r.CreatedBy, status, createdAt); err != nil {
		return fmt.Errorf("create room %q: %w", r.RoomID, err)
	}
	return nil
}

// AddParticipant appends p unless the roster already holds its connection id.
// The containment guard and the append happen in one statement.
func (s *PostgresStore) AddParticipant(ctx context.Context, roomID string, p Participant) error {
	const q = `
		UPDATE rooms
		SET participants = participants || $2::jsonb
		WHERE room_id = $1
		  AND NOT participants @> $3::jsonb`

	elem, err := json.Marshal([]Participant{p})
	if err != nil {
		return fmt.Errorf("encode participant: %w", err)
	}

	guard, err := json.Marshal([]map[string]string{{"connection_id": p.ConnectionID}})
	if err != nil {
		return fmt.Errorf("encode participant guard: %w", err)
	}

	tag, err := s.pool.Exec(ctx, q, roomID, elem, guard)
	if err != nil {
		return fmt.Errorf("add participant to room %q: %w", roomID, err)
	}

	if tag.RowsAffected() == 0 {
		// Either the room is missing or the connection already joined.
		exists, err := s.roomExists(ctx, roomID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}

// RemoveParticipant filters the roster by user id in a single statement.
// A missing room or a non-member user is a no-op.
func (s *PostgresStore) RemoveParticipant(ctx context.Context, roomID string, userID string) error {
	const q = `
		UPDATE rooms
		SET participants = COALESCE(
			(SELECT jsonb_agg(p) FROM jsonb_array_elements(participants) AS p
			 WHERE p->>'user_id' <> $2),
			'[]'::jsonb)
		WHERE room_id = $1`

	if _, err := s.pool.Exec(ctx, q, roomID, userID); err != nil {
		return fmt.Errorf("remove participant from room %q: %w", roomID, err)
	}
	return nil
}

// AddMessage appends rec to the room's message history.
func (s *PostgresStore) AddMessage(ctx context.Context, roomID string, rec SignalRecord) error {
	const q = `
		UPDATE rooms
		SET messages = messages || $2::jsonb
		WHERE room_id = $1`

	elem, err := json.Marshal([]SignalRecord{rec})
	if err != nil {
		return fmt.Errorf("encode signal record: %w", err)
	}

	tag, err := s.pool.Exec(ctx, q, roomID, elem)
	if err != nil {
		return fmt.Errorf("add message to room %q: %w", roomID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) roomExists(ctx context.Context, roomID string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM rooms WHERE room_id = $1)`

	var exists bool
	if err := s.pool.QueryRow(ctx, q, roomID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check room %q: %w", roomID, err)
	}
	return exists, nil
}
