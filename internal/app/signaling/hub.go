/*
Package signaling implements the real-time signaling relay for video consultations.

This file defines the Hub, the in-memory transport-level grouping of live
connections into rooms. The Hub only knows which peers can currently receive
events; the authoritative participant roster lives in the room store.
*/
package signaling

import (
	"sync"

	"github.com/rs/zerolog"

	"doceasy/internal/pkg/logx"
)

// Peer is a live connection the Hub can deliver events to.
// *Client implements it over a WebSocket; tests implement it in memory.
type Peer interface {
	// ID returns the unique connection id.
	ID() string

	// Send queues one outbound event. Implementations must not block the
	// caller; a full queue drops the event and returns an error.
	Send(event string, data any) error
}

// Hub tracks which live connections are grouped into which rooms.
type Hub struct {
	mu sync.RWMutex

	// rooms maps room id -> connection id -> peer.
	rooms map[string]map[string]Peer

	// joined maps connection id -> set of room ids, for the disconnect sweep.
	joined map[string]map[string]struct{}

	logger zerolog.Logger
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]map[string]Peer),
		joined: make(map[string]map[string]struct{}),
		logger: logx.Logger().With().Str("component", "Hub").Logger(),
	}
}

// Join adds the peer to the room group. Joining the same room twice is a no-op.
func (h *Hub) Join(roomID string, p Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.rooms[roomID]
	if !ok {
		group = make(map[string]Peer)
		h.rooms[roomID] = group
	}
	group[p.ID()] = p

	rooms, ok := h.joined[p.ID()]
	if !ok {
		rooms = make(map[string]struct{})
		h.joined[p.ID()] = rooms
	}
	rooms[roomID] = struct{}{}
}

// Leave removes the connection from the room group and reports whether it was
// a member. Empty groups are deleted.
func (h *Hub) Leave(roomID string, connID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.leaveLocked(roomID, connID)
}

// LeaveAll removes the connection from every room group it joined and returns
// the ids of those rooms. Used on disconnect.
func (h *Hub) LeaveAll(connID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var left []string
	for roomID := range h.joined[connID] {
		if h.leaveLocked(roomID, connID) {
			left = append(left, roomID)
		}
	}
	return left
}

func (h *Hub) leaveLocked(roomID string, connID string) bool {
	group, ok := h.rooms[roomID]
	if !ok {
		return false
	}
	if _, member := group[connID]; !member {
		return false
	}

	delete(group, connID)
	if len(group) == 0 {
		delete(h.rooms, roomID)
	}

	if rooms, ok := h.joined[connID]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(h.joined, connID)
		}
	}
	return true
}

// Broadcast queues the event on every peer in the room except excludeConnID
// (pass "" to reach the whole room). Peers are snapshotted under the read
// lock; the actual sends happen outside it.
func (h *Hub) Broadcast(roomID string, excludeConnID string, event string, data any) {
	h.mu.RLock()
	group := h.rooms[roomID]
	peers := make([]Peer, 0, len(group))
	for connID, p := range group {
		if connID != excludeConnID {
			peers = append(peers, p)
		}
	}
	h.mu.RUnlock()

	for _, p := range peers {
		if err := p.Send(event, data); err != nil {
			h.logger.Warn().
				Str("room_id", roomID).
				Str("conn_id", p.ID()).
				Str("event", event).
				Err(err).
				Msg("Dropping broadcast event for peer.")
		}
	}
}

// SendToConn queues the event on one specific member of the room. It reports
// false when that connection is not currently in the room group.
func (h *Hub) SendToConn(roomID string, connID string, event string, data any) bool {
	h.mu.RLock()
	p, ok := h.rooms[roomID][connID]
	h.mu.RUnlock()

	if !ok {
		return false
	}

	if err := p.Send(event, data); err != nil {
		h.logger.Warn().
			Str("room_id", roomID).
			Str("conn_id", connID).
			Str("event", event).
			Err(err).
			Msg("Dropping targeted event for peer.")
	}
	return true
}

// RoomSize reports how many live connections are grouped into the room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[roomID])
}
