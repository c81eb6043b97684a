/*
Package signaling implements the real-time signaling relay for video consultations.

It manages socket connection lifecycles, binds authenticated identities to
live connections, tracks room membership, and routes opaque WebRTC signaling
payloads between peers. Room state and message history are persisted through
the room.Store collaborator.

This file defines the wire protocol: one JSON envelope per WebSocket text
message, with typed payloads per event.
*/
package signaling

import "encoding/json"

// Inbound event names.
const (
	EventAuthenticate = "authenticate"
	EventJoinRoom     = "join_room"
	EventLeaveRoom    = "leave_room"
	EventWebRTCSignal = "webrtc_signal"
)

// Outbound event names.
const (
	EventConnected     = "connected"
	EventAuthenticated = "authenticated"
	EventAuthError     = "auth_error"
	EventRoomJoined    = "room_joined"
	EventRoomError     = "room_error"
	EventUserJoined    = "user_joined"
	EventUserLeft      = "user_left"
	EventSignalError   = "signal_error"
	// EventWebRTCSignal is reused outbound with the sender envelope.
)

// Envelope frames every message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// AuthenticatePayload carries the bearer token of an authenticate event.
type AuthenticatePayload struct {
	Token string `json:"token"`
}

// RoomPayload carries the room id of join_room and leave_room events.
type RoomPayload struct {
	RoomID string `json:"room_id"`
}

// SignalPayload is the inbound webrtc_signal event. Signal is opaque and is
// forwarded without inspection; TargetID optionally addresses a single peer.
type SignalPayload struct {
	RoomID   string          `json:"room_id"`
	Signal   json.RawMessage `json:"signal"`
	TargetID string          `json:"target_id,omitempty"`
}

// ConnectedPayload acknowledges a fresh transport connection.
type ConnectedPayload struct {
	Status string `json:"status"`
	SID    string `json:"sid"`
}

// AuthenticatedPayload confirms a successful authenticate event.
type AuthenticatedPayload struct {
	Status string `json:"status"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// RoomJoinedPayload acknowledges a join to the joiner alone.
type RoomJoinedPayload struct {
	RoomID string `json:"room_id"`
	Status string `json:"status"`
}

// UserJoinedPayload notifies existing members of a new participant.
type UserJoinedPayload struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// UserLeftPayload notifies the room that a participant left.
type UserLeftPayload struct {
	UserID string `json:"user_id"`
}

// SignalForward is the outbound webrtc_signal event, tagging the opaque
// payload with the sender's identity.
type SignalForward struct {
	FromUserID   string          `json:"from_user_id"`
	FromUserRole string          `json:"from_user_role"`
	Signal       json.RawMessage `json:"signal"`
}

// ErrorPayload is the body of auth_error, room_error, and signal_error events.
type ErrorPayload struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}
