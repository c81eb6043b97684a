/*
Package signaling implements the real-time signaling relay for video consultations.

This file defines the Client struct, representing one active WebSocket
connection. The read pump processes the connection's inbound events strictly
in order and drives an explicit per-connection state machine; the write pump
drains the buffered send queue and keeps the heartbeat alive.
*/
package signaling

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"doceasy/internal/pkg/errs"
	"doceasy/internal/pkg/logx"
	"doceasy/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 16384

	// capacity of the per-connection outbound queue.
	sendQueueSize = 256
)

// State is the phase of a connection's lifecycle.
type State int

const (
	// StateConnected: transport open, no identity bound yet.
	StateConnected State = iota

	// StateAuthenticated: identity bound in the registry.
	StateAuthenticated

	// StateInRoom: joined at least one room.
	StateInRoom

	// StateClosed: terminal; cleanup has run.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateAuthenticated:
		return "authenticated"
	case StateInRoom:
		return "in_room"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Client represents an active WebSocket connection on the signaling relay.
type Client struct {
	// unique connection identifier (the "sid" of the connected ack).
	id string

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// the relay handling this connection's events.
	relay *Relay

	// buffered channel of marshaled outbound frames.
	send chan []byte

	// lifecycle phase; touched only by the read pump goroutine.
	state State

	// rooms this connection has joined, for the InRoom/Authenticated transition.
	rooms map[string]struct{}

	// sendMu serializes queue writes with the close of the send channel.
	// A hub broadcast may hold a snapshot of this peer and call Send after
	// the disconnect cleanup has started; the closed flag turns that into an
	// error return instead of a send on a closed channel.
	sendMu sync.Mutex
	closed bool

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client around an upgraded WebSocket connection.
func NewClient(relay *Relay, wsConn *websocket.Conn) *Client {
	connID := randx.ConnectionID()

	return &Client{
		id:     connID,
		conn:   wsConn,
		relay:  relay,
		send:   make(chan []byte, sendQueueSize),
		state:  StateConnected,
		rooms:  make(map[string]struct{}),
		logger: logx.Logger().With().Str("conn_id", connID).Logger(),
	}
}

// ID returns the connection identifier.
func (c *Client) ID() string {
	return c.id
}

// Send marshals the event into an envelope and queues it without blocking.
// A full queue drops the frame and reports the failure to the caller, and a
// disconnected client reports an error instead of queuing.
func (c *Client) Send(event string, data any) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		c.logger.Error().Str("event", event).Err(err).Msg("Error marshaling event data.")
		return err
	}

	frame, err := json.Marshal(Envelope{Event: event, Data: dataBytes})
	if err != nil {
		c.logger.Error().Str("event", event).Err(err).Msg("Error marshaling envelope.")
		return err
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return fmt.Errorf("client connection closed")
	}

	select {
	case c.send <- frame:
		return nil
	default:
		c.logger.Warn().Str("event", event).Int("queue_len", len(c.send)).Msg("Client send queue full, dropping event.")
		return fmt.Errorf("client send queue full")
	}
}

// ReadPump reads and dispatches inbound events until the connection closes,
// then runs the disconnect cleanup. It is the only goroutine touching the
// connection's state, which gives each connection strict event ordering.
func (c *Client) ReadPump(ctx context.Context) {
	defer c.cleanupOnDisconnect(ctx)

	if err := c.Send(EventConnected, ConnectedPayload{Status: "connected", SID: c.id}); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to queue connected ack.")
	}

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.dispatch(ctx, messageBytes)
	}
}

// cleanupOnDisconnect unbinds the session, leaves all rooms, and closes the
// transport. It runs exactly once, whatever state the connection was in.
func (c *Client) cleanupOnDisconnect(ctx context.Context) {
	c.logger.Info().Str("state", c.state.String()).Msg("Client connection cleanup starting.")

	c.state = StateClosed

	c.relay.Disconnect(ctx, c)

	c.sendMu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.sendMu.Unlock()

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// dispatch parses one inbound envelope and routes it to the relay. Every
// failure is converted into the matching *_error event on this connection;
// nothing propagates far enough to kill the transport.
func (c *Client) dispatch(ctx context.Context, messageBytes []byte) {
	var env Envelope
	if err := json.Unmarshal(messageBytes, &env); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON")
		return
	}

	switch env.Event {
	case EventAuthenticate:
		c.handleAuthenticate(env.Data)

	case EventJoinRoom:
		c.handleJoinRoom(ctx, env.Data)

	case EventLeaveRoom:
		c.handleLeaveRoom(ctx, env.Data)

	case EventWebRTCSignal:
		c.handleSignal(ctx, env.Data)

	default:
		c.logger.Warn().Str("event", env.Event).Msg("Client sent unsupported event")
	}
}

func (c *Client) handleAuthenticate(data json.RawMessage) {
	var payload AuthenticatePayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid authenticate payload")
			c.sendError(EventAuthError, errs.NewError(errs.ErrInvalidParams))
			return
		}
	}

	if _, customErr := c.relay.Authenticate(c, payload.Token); customErr != nil {
		c.sendError(EventAuthError, customErr)
		return
	}

	// join_room is honored from here on; a failed authenticate leaves the
	// connection in its previous state.
	if c.state == StateConnected {
		c.state = StateAuthenticated
	}
}

func (c *Client) handleJoinRoom(ctx context.Context, data json.RawMessage) {
	var payload RoomPayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid join_room payload")
			c.sendError(EventRoomError, errs.NewError(errs.ErrInvalidParams))
			return
		}
	}

	if customErr := c.relay.JoinRoom(ctx, c, payload.RoomID); customErr != nil {
		c.sendError(EventRoomError, customErr)
		return
	}

	c.rooms[payload.RoomID] = struct{}{}
	c.state = StateInRoom
}

func (c *Client) handleLeaveRoom(ctx context.Context, data json.RawMessage) {
	var payload RoomPayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid leave_room payload")
			return
		}
	}

	// Best-effort path: the relay no-ops silently on anything questionable.
	c.relay.LeaveRoom(ctx, c, payload.RoomID)

	delete(c.rooms, payload.RoomID)
	if c.state == StateInRoom && len(c.rooms) == 0 {
		c.state = StateAuthenticated
	}
}

func (c *Client) handleSignal(ctx context.Context, data json.RawMessage) {
	var payload SignalPayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid webrtc_signal payload")
			c.sendError(EventSignalError, errs.NewError(errs.ErrInvalidParams))
			return
		}
	}

	if customErr := c.relay.RouteSignal(ctx, c, payload); customErr != nil {
		c.sendError(EventSignalError, customErr)
	}
}

// WritePump writes queued frames to the WebSocket and sends periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one frame from the send channel to the WebSocket.
// Returns false when the WritePump loop should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a heartbeat ping. Returns false on write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// sendError converts a business error into the given *_error event.
func (c *Client) sendError(event string, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	payload := ErrorPayload{Code: customErr.Code, Error: customErr.Message}
	if err := c.Send(event, payload); err != nil {
		c.logger.Warn().Str("event", event).Err(err).Msg("Failed to queue error event")
	}
}
