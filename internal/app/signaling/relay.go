/*
Package signaling implements the real-time signaling relay for video consultations.

This file defines the Relay, the business logic behind the socket events:
authentication binding, room join/leave bookkeeping, and signal routing.
Methods return *errs.CustomError; the connection lifecycle handler converts
those into the matching *_error event, so a failing operation never tears
down the transport.
*/
package signaling

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"doceasy/internal/app/room"
	"doceasy/internal/pkg/auth/jwt"
	"doceasy/internal/pkg/errs"
	"doceasy/internal/pkg/logx"
)

// TokenVerifier validates a bearer credential and extracts the identity.
// *jwt.Verifier is the production implementation.
type TokenVerifier interface {
	Verify(token string) (jwt.Identity, error)
}

// Relay wires the connection registry, the live hub, the room store, and the
// token verifier into the signaling operations.
type Relay struct {
	registry *Registry
	hub      *Hub
	store    room.Store
	verifier TokenVerifier
	logger   zerolog.Logger
}

// NewRelay constructs a Relay around its injected collaborators.
func NewRelay(registry *Registry, hub *Hub, store room.Store, verifier TokenVerifier) *Relay {
	return &Relay{
		registry: registry,
		hub:      hub,
		store:    store,
		verifier: verifier,
		logger:   logx.Logger().With().Str("component", "Relay").Logger(),
	}
}

// Registry exposes the connection registry, mainly for operational surfaces.
func (rl *Relay) Registry() *Registry {
	return rl.registry
}

// Hub exposes the live hub, mainly for operational surfaces.
func (rl *Relay) Hub() *Hub {
	return rl.hub
}

// Authenticate verifies the bearer token and binds the identity to the
// connection. The ack goes to the peer; failures are returned for the caller
// to emit as auth_error.
func (rl *Relay) Authenticate(p Peer, token string) (jwt.Identity, *errs.CustomError) {
	if token == "" {
		rl.logger.Warn().Str("conn_id", p.ID()).Msg("Authentication failed: no token provided.")
		return jwt.Identity{}, errs.NewError(errs.ErrTokenMissing)
	}

	identity, err := rl.verifier.Verify(token)
	if err != nil {
		rl.logger.Warn().Str("conn_id", p.ID()).Err(err).Msg("Authentication failed: token rejected.")
		return jwt.Identity{}, errs.NewError(errs.ErrTokenInvalid)
	}

	rl.registry.Bind(p.ID(), identity)

	rl.logger.Info().
		Str("conn_id", p.ID()).
		Str("user_id", identity.UserID).
		Str("role", identity.Role).
		Msg("Connection authenticated.")

	if err := p.Send(EventAuthenticated, AuthenticatedPayload{
		Status: "success",
		UserID: identity.UserID,
		Role:   identity.Role,
	}); err != nil {
		rl.logger.Warn().Str("conn_id", p.ID()).Err(err).Msg("Failed to queue authenticated ack.")
	}

	return identity, nil
}

// JoinRoom creates the room document if absent, appends the caller to its
// roster, adds the connection to the live group, notifies the existing
// members, and acks the joiner alone.
func (rl *Relay) JoinRoom(ctx context.Context, p Peer, roomID string) *errs.CustomError {
	identity, ok := rl.registry.Lookup(p.ID())
	if !ok {
		return errs.NewError(errs.ErrNotAuthenticated)
	}

	if roomID == "" {
		return errs.NewError(errs.ErrRoomIDRequired)
	}

	// Lazy creation. Two racing joiners may both attempt this; the store's
	// idempotent upsert keeps exactly one document either way.
	if _, err := rl.store.FindByID(ctx, roomID); err != nil {
		if err != room.ErrNotFound {
			rl.logger.Error().Str("room_id", roomID).Err(err).Msg("Room lookup failed during join.")
			return errs.NewError(errs.ErrRoomJoinFailed)
		}

		doc := &room.Room{
			RoomID:    roomID,
			CreatedBy: identity.UserID,
			Status:    room.StatusActive,
		}
		if err := rl.store.Create(ctx, doc); err != nil {
			rl.logger.Error().Str("room_id", roomID).Err(err).Msg("Room creation failed during join.")
			return errs.NewError(errs.ErrRoomJoinFailed)
		}
	}

	participant := room.Participant{
		ConnectionID: p.ID(),
		UserID:       identity.UserID,
		Role:         identity.Role,
		JoinedAt:     time.Now(),
	}

	if err := rl.store.AddParticipant(ctx, roomID, participant); err != nil {
		rl.logger.Error().Str("room_id", roomID).Err(err).Msg("Failed to persist participant.")
		return errs.NewError(errs.ErrRoomJoinFailed)
	}

	rl.hub.Join(roomID, p)

	rl.logger.Info().
		Str("room_id", roomID).
		Str("user_id", identity.UserID).
		Int("room_size", rl.hub.RoomSize(roomID)).
		Msg("User joined room.")

	rl.hub.Broadcast(roomID, p.ID(), EventUserJoined, UserJoinedPayload{
		UserID: identity.UserID,
		Role:   identity.Role,
	})

	if err := p.Send(EventRoomJoined, RoomJoinedPayload{RoomID: roomID, Status: "joined"}); err != nil {
		rl.logger.Warn().Str("conn_id", p.ID()).Err(err).Msg("Failed to queue room_joined ack.")
	}

	return nil
}

// LeaveRoom removes the caller from the room. This is a best-effort cleanup
// path: an unauthenticated caller, a missing room id, or a room the caller
// never joined are all silent no-ops.
func (rl *Relay) LeaveRoom(ctx context.Context, p Peer, roomID string) {
	identity, ok := rl.registry.Lookup(p.ID())
	if !ok || roomID == "" {
		return
	}

	// A second leave finds the connection already out of the group and stops
	// here, so user_left is never broadcast twice.
	if !rl.hub.Leave(roomID, p.ID()) {
		return
	}

	rl.removeAndNotify(ctx, roomID, identity.UserID)
}

// Disconnect runs the transport-level cleanup: every room the connection had
// joined is left best-effort, then the registry binding is dropped. It always
// runs to completion regardless of the connection's state.
func (rl *Relay) Disconnect(ctx context.Context, p Peer) {
	identity, authenticated := rl.registry.Lookup(p.ID())

	for _, roomID := range rl.hub.LeaveAll(p.ID()) {
		if authenticated {
			rl.removeAndNotify(ctx, roomID, identity.UserID)
		}
	}

	rl.registry.Unbind(p.ID())

	rl.logger.Info().Str("conn_id", p.ID()).Msg("Connection cleaned up.")
}

// removeAndNotify drops the user from the persisted roster and tells the
// whole remaining room. Unlike user_joined there is no self-exclusion: the
// leaver is already out of the live group, so the broadcast reaches exactly
// the members left behind.
func (rl *Relay) removeAndNotify(ctx context.Context, roomID string, userID string) {
	if err := rl.store.RemoveParticipant(ctx, roomID, userID); err != nil {
		rl.logger.Warn().
			Str("room_id", roomID).
			Str("user_id", userID).
			Err(err).
			Msg("Failed to remove participant from store; continuing with notification.")
	}

	rl.logger.Info().Str("room_id", roomID).Str("user_id", userID).Msg("User left room.")

	rl.hub.Broadcast(roomID, "", EventUserLeft, UserLeftPayload{UserID: userID})
}

// RouteSignal logs the signaling payload to the room history and forwards it:
// to the target participant's connection when target_id is set and reachable,
// otherwise to every other member of the room.
func (rl *Relay) RouteSignal(ctx context.Context, p Peer, in SignalPayload) *errs.CustomError {
	identity, ok := rl.registry.Lookup(p.ID())
	if !ok {
		return errs.NewError(errs.ErrNotAuthenticated)
	}

	if in.RoomID == "" || len(in.Signal) == 0 {
		return errs.NewError(errs.ErrSignalRequired)
	}

	record := room.SignalRecord{
		UserID:    identity.UserID,
		Role:      identity.Role,
		Timestamp: time.Now(),
		Signal:    in.Signal,
		TargetID:  in.TargetID,
	}

	// History is best-effort: a failed append is surfaced in the logs but
	// never blocks delivery.
	if err := rl.store.AddMessage(ctx, in.RoomID, record); err != nil {
		rl.logger.Warn().
			Str("room_id", in.RoomID).
			Str("user_id", identity.UserID).
			Err(err).
			Msg("Failed to persist signal record; delivering anyway.")
	}

	forward := SignalForward{
		FromUserID:   identity.UserID,
		FromUserRole: identity.Role,
		Signal:       in.Signal,
	}

	if in.TargetID != "" {
		if rl.deliverToTarget(ctx, in.RoomID, in.TargetID, forward) {
			return nil
		}
		rl.logger.Info().
			Str("room_id", in.RoomID).
			Str("target_id", in.TargetID).
			Msg("Signal target not reachable; falling back to room broadcast.")
	}

	rl.hub.Broadcast(in.RoomID, p.ID(), EventWebRTCSignal, forward)
	return nil
}

// deliverToTarget resolves the target user in the persisted roster and sends
// to that participant's live connection. False means the caller should fall
// back to a room broadcast.
func (rl *Relay) deliverToTarget(ctx context.Context, roomID string, targetID string, forward SignalForward) bool {
	doc, err := rl.store.FindByID(ctx, roomID)
	if err != nil {
		rl.logger.Warn().Str("room_id", roomID).Err(err).Msg("Room lookup failed during targeted delivery.")
		return false
	}

	target := doc.FindParticipant(targetID)
	if target == nil {
		return false
	}

	return rl.hub.SendToConn(roomID, target.ConnectionID, EventWebRTCSignal, forward)
}
