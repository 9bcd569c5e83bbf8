package miniqtt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/asoderlund/miniqtt/internal/streamio"
)

// Facade is the convenience surface — connect, publish, subscribe,
// disconnect, keepalive, and receive — wrapping the action dispatcher for
// callers who would rather not build Action values by hand.
type Facade struct {
	sess   *Session
	reader *streamio.FrameReader
}

// Open wires a Facade around a freshly-initialized Session: transport is
// read for framed packets (by Connect's poll loop and by Receive's callers),
// sink is the output collaborator every Dispatch call writes through.
// logger may be nil, in which case Session defaults to a discarding handler.
func Open(transport io.Reader, sink OutputSink, onConnected ConnectedCallback, onMessage SubscribeCallback, logger *slog.Logger) *Facade {
	sess := NewSession()
	sess.Dispatch(InitAction{Config: SessionConfig{
		Output:      sink,
		OnConnected: onConnected,
		OnMessage:   onMessage,
		Logger:      logger,
	}})
	return &Facade{
		sess:   sess,
		reader: streamio.NewFrameReader(transport),
	}
}

// Session returns the underlying Session, for a caller that wants to run
// its own receive loop (e.g. via internal/streamio.FrameReader.Run) instead
// of calling Receive synchronously.
func (f *Facade) Session() *Session { return f.sess }

// Connect dispatches Init (already done by Open) then Connect, and blocks
// up to timeout polling the transport for a CONNACK. Any other packet the
// transport offers up while waiting is parsed and delivered to the façade's
// callbacks like any other Receive.
func (f *Facade) Connect(ctx context.Context, params ConnectParams, timeout time.Duration) error {
	if st := f.sess.Dispatch(ConnectAction{Params: params}); st.Err() != nil {
		return st.Err()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		connAckStatus Status
		gotConnAck    bool
	)
	prevOnConnected := f.sess.onConnected
	f.sess.onConnected = func(status Status) {
		connAckStatus = status
		gotConnAck = true
		if prevOnConnected != nil {
			prevOnConnected(status)
		}
	}
	defer func() { f.sess.onConnected = prevOnConnected }()

	for !gotConnAck {
		frame, err := f.reader.ReadFrame(ctx)
		if err != nil {
			return fmt.Errorf("miniqtt: waiting for CONNACK: %w", err)
		}
		st := f.sess.Dispatch(ParseInputStreamAction{Data: frame})
		if st != StatusSuccessful && st != StatusPublishDecodeError {
			return st.Err()
		}
	}
	return connAckStatus.Err()
}

// Publish wraps a PublishAction at QoS0, the only level this core delivers
// end to end.
func (f *Facade) Publish(topic string, message []byte) error {
	return f.sess.Dispatch(PublishAction{Request: PublishRequest{Topic: topic, Message: message}}).Err()
}

// Subscribe wraps a SubscribeAction for a single topic filter.
func (f *Facade) Subscribe(topic string, qos uint8) error {
	return f.sess.Dispatch(SubscribeAction{Request: SubscribeRequest{Topic: topic, QoS: qos}}).Err()
}

// Disconnect wraps a DisconnectAction.
func (f *Facade) Disconnect() error {
	return f.sess.Dispatch(DisconnectAction{}).Err()
}

// Keepalive wraps a KeepaliveAction, supplying elapsed milliseconds since
// the caller's last tick.
func (f *Facade) Keepalive(elapsedMS int32) error {
	return f.sess.Dispatch(KeepaliveAction{ElapsedMS: elapsedMS}).Err()
}

// Receive hands one already-framed packet to the parser. It is the entry
// point a transport's receive thread invokes with fully-framed packets, for
// example one read by internal/streamio's FrameReader.
func (f *Facade) Receive(frame []byte) error {
	return f.sess.Dispatch(ParseInputStreamAction{Data: frame}).Err()
}
