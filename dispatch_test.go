package miniqtt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asoderlund/miniqtt/internal/wire"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	sess := NewSession()
	require.Equal(t, StatusSuccessful, sess.Dispatch(InitAction{Config: SessionConfig{
		Output: out.Write,
	}}))
	return sess, &out
}

func TestDispatchRequiresInitFirst(t *testing.T) {
	t.Parallel()
	sess := NewSession()
	require.Equal(t, StatusInvalidArgument, sess.Dispatch(ConnectAction{Params: ConnectParams{ClientID: "A"}}))
}

func TestDispatchConnectMinimum(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t)

	st := sess.Dispatch(ConnectAction{Params: ConnectParams{ClientID: "A", CleanSession: true}})
	require.Equal(t, StatusSuccessful, st)
	require.Equal(t, StateConnected, sess.State())
	require.Equal(t, []byte{
		0x10, 0x0D,
		0x00, 0x04, 'M', 'Q', 'T', 'T', 0x04,
		0x02, 0x00, 0x00,
		0x00, 0x01, 'A',
	}, out.Bytes())
}

func TestDispatchConnAckDemotesOnFailure(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t)
	sess.Dispatch(ConnectAction{Params: ConnectParams{ClientID: "A", CleanSession: true}})
	require.Equal(t, StateConnected, sess.State())

	connAck, err := wire.AppendConnAck(nil, false, wire.ReturnCodeNotAuthorized)
	require.NoError(t, err)

	var gotStatus Status
	sess.onConnected = func(status Status) { gotStatus = status }

	st := sess.Dispatch(ParseInputStreamAction{Data: connAck})
	require.Equal(t, StatusSuccessful, st)
	require.Equal(t, StateDisconnected, sess.State())
	require.Equal(t, StatusNotAuthorized, gotStatus)
}

func TestDispatchConnAckSuccessConfirmsConnected(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t)
	sess.Dispatch(ConnectAction{Params: ConnectParams{ClientID: "A", CleanSession: true}})

	connAck, err := wire.AppendConnAck(nil, false, wire.ReturnCodeAccepted)
	require.NoError(t, err)

	var gotStatus Status
	sess.onConnected = func(status Status) { gotStatus = status }

	require.Equal(t, StatusSuccessful, sess.Dispatch(ParseInputStreamAction{Data: connAck}))
	require.Equal(t, StateConnected, sess.State())
	require.Equal(t, StatusSuccessful, gotStatus)
}

func TestDispatchPublishQoS0(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t)
	sess.Dispatch(ConnectAction{Params: ConnectParams{ClientID: "A", CleanSession: true}})
	out.Reset()

	st := sess.Dispatch(PublishAction{Request: PublishRequest{Topic: "a/b", Message: []byte("hi")}})
	require.Equal(t, StatusSuccessful, st)
	require.Equal(t, []byte{0x30, 0x07, 0x00, 0x03, 'a', '/', 'b', 'h', 'i'}, out.Bytes())
}

func TestDispatchPublishRequiresConnected(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t)
	st := sess.Dispatch(PublishAction{Request: PublishRequest{Topic: "a/b", Message: []byte("hi")}})
	require.Equal(t, StatusNoConnection, st)
}

func TestDispatchPublishAdvancesPacketIDOnlyForQoSAboveZero(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t)
	sess.Dispatch(ConnectAction{Params: ConnectParams{ClientID: "A", CleanSession: true}})

	for i := 0; i < 3; i++ {
		sess.Dispatch(PublishAction{Request: PublishRequest{Topic: "a/b", Message: []byte("x"), QoS: 0}})
	}
	require.Equal(t, uint16(0), sess.packetID)

	for i := 0; i < 3; i++ {
		sess.Dispatch(PublishAction{Request: PublishRequest{Topic: "a/b", Message: []byte("x"), QoS: 1}})
	}
	require.Equal(t, uint16(3), sess.packetID)
}

func TestDispatchSubscribe(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t)
	sess.Dispatch(ConnectAction{Params: ConnectParams{ClientID: "A", CleanSession: true}})
	out.Reset()

	st := sess.Dispatch(SubscribeAction{Request: SubscribeRequest{Topic: "a/b", QoS: 0}})
	require.Equal(t, StatusSuccessful, st)
	require.Equal(t, []byte{0x82, 0x08, 0x00, 0x01, 0x00, 0x03, 'a', '/', 'b', 0x00}, out.Bytes())

	subAck := []byte{0x90, 0x03, 0x00, 0x01, 0x00}
	var gotStatus Status
	var gotMsg Message
	sess.onMessage = func(status Status, msg Message) { gotStatus = status; gotMsg = msg }
	require.Equal(t, StatusSuccessful, sess.Dispatch(ParseInputStreamAction{Data: subAck}))
	require.Equal(t, StatusSuccessful, gotStatus)
	require.Equal(t, Message{}, gotMsg)
}

func TestDispatchReceivesPublish(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t)
	sess.Dispatch(ConnectAction{Params: ConnectParams{ClientID: "A", CleanSession: true}})

	var gotMsg Message
	sess.onMessage = func(status Status, msg Message) { gotMsg = msg }

	incoming := []byte{0x30, 0x07, 0x00, 0x03, 'a', '/', 'b', 'h', 'i'}
	require.Equal(t, StatusSuccessful, sess.Dispatch(ParseInputStreamAction{Data: incoming}))
	require.Equal(t, "a/b", gotMsg.Topic)
	require.Equal(t, []byte("hi"), gotMsg.Payload)
}

func TestDispatchDisallowsReentrantCallback(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t)
	sess.Dispatch(ConnectAction{Params: ConnectParams{ClientID: "A", CleanSession: true}})

	var nestedStatus Status
	sess.onMessage = func(status Status, msg Message) {
		nestedStatus = sess.Dispatch(DisconnectAction{})
	}
	incoming := []byte{0x30, 0x07, 0x00, 0x03, 'a', '/', 'b', 'h', 'i'}
	sess.Dispatch(ParseInputStreamAction{Data: incoming})
	require.Equal(t, StatusInvalidArgument, nestedStatus)
}
