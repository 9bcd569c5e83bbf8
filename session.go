package miniqtt

import (
	"context"
	"log/slog"
	"math"
)

// State is the connection state of a Session.
type State uint8

const (
	StateDisconnected State = iota
	StateConnected
)

// String returns the state's name.
func (s State) String() string {
	if s == StateConnected {
		return "connected"
	}
	return "disconnected"
}

// OutputSink is the transport collaborator that pushes a finished packet
// onto the wire. It must write the whole slice or return an error; the
// dispatcher maps any error, or a short write, to StatusServerUnavailable
// and never retries internally.
type OutputSink func(p []byte) (n int, err error)

// ConnectedCallback fires once per parsed CONNACK, synchronously inside
// Dispatch(ParseInputStreamAction{...}).
type ConnectedCallback func(status Status)

// Message is a single inbound application message delivered to a
// SubscribeCallback. Payload is a view into the buffer handed to
// ParseInputStreamAction — the callback must consume it synchronously,
// before returning. Topic is a copied string, not a view.
type Message struct {
	Topic   string
	Payload []byte
}

// SubscribeCallback fires for PUBLISH and SUBACK packets, synchronously
// inside Dispatch(ParseInputStreamAction{...}). msg is the zero value for a
// SUBACK delivery or a decode failure.
type SubscribeCallback func(status Status, msg Message)

// keepaliveDisabled is the INT32_MIN sentinel used for "keepalive disabled".
const keepaliveDisabled int32 = math.MinInt32

// SessionConfig configures a Session at Init time. Output must be non-nil
// before any action but Init is dispatched; OnConnected and OnMessage may be
// nil, in which case the corresponding event is silently dropped.
type SessionConfig struct {
	Output      OutputSink
	OnConnected ConnectedCallback
	OnMessage   SubscribeCallback
	// Logger receives structured debug/warn traces of dispatcher
	// transitions, decode failures, and keepalive pings. A nil Logger
	// defaults to a discarding handler.
	Logger *slog.Logger
}

// Session is the connection state machine: connection state,
// packet-identifier counter, keepalive countdown, output sink, and event
// callbacks. The zero value is not usable — dispatch InitAction first.
//
// Session is not safe for concurrent use. The caller must serialize every
// Dispatch call against a single Session, for example by guarding it with a
// mutex the caller owns, or by funneling every action through one goroutine.
type Session struct {
	initialized bool
	state       State

	output      OutputSink
	onConnected ConnectedCallback
	onMessage   SubscribeCallback
	logger      *slog.Logger

	packetID uint16

	keepaliveTotalMS     int32
	keepaliveRemainingMS int32

	// outBuf is reused across Dispatch calls to avoid allocating a new
	// packet buffer on every action — the closest idiomatic-Go analogue of
	// a caller-supplied, borrowed output buffer.
	outBuf []byte

	// inCallback is set while a callback runs; Dispatch rejects every
	// action on the same session with StatusInvalidArgument until it returns.
	inCallback bool
}

// NewSession allocates a Session in its zero, uninitialized state. Dispatch
// InitAction before dispatching anything else.
func NewSession() *Session {
	return &Session{}
}

// State returns the session's current connection state.
func (s *Session) State() State {
	return s.state
}

func (s *Session) logf(level slog.Level, msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Log(context.Background(), level, msg, args...)
}

func (s *Session) write(p []byte) Status {
	n, err := s.output(p)
	if err != nil || n != len(p) {
		s.logf(slog.LevelWarn, "miniqtt: transport write failed", "err", err, "wrote", n, "want", len(p))
		return StatusServerUnavailable
	}
	return StatusSuccessful
}

// nextPacketID returns the next packet identifier, wrapping at 2^16.
func (s *Session) nextPacketID() uint16 {
	s.packetID++
	return s.packetID
}
