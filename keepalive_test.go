package miniqtt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeepaliveScenario(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t)
	sess.Dispatch(ConnectAction{Params: ConnectParams{ClientID: "A", CleanSession: true, KeepAliveSeconds: 2}})
	require.Equal(t, int32(1500), sess.keepaliveTotalMS)
	out.Reset()

	require.Equal(t, StatusSuccessful, sess.Dispatch(KeepaliveAction{ElapsedMS: 1600}))
	require.Equal(t, []byte{0xC0, 0x00}, out.Bytes())

	out.Reset()
	require.Equal(t, StatusPingNotSend, sess.Dispatch(KeepaliveAction{ElapsedMS: 100}))
	require.Empty(t, out.Bytes())
}

func TestKeepaliveDisabledWithZeroInterval(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t)
	sess.Dispatch(ConnectAction{Params: ConnectParams{ClientID: "A", CleanSession: true, KeepAliveSeconds: 0}})
	require.Equal(t, keepaliveDisabled, sess.keepaliveTotalMS)

	out.Reset()
	require.Equal(t, StatusSuccessful, sess.Dispatch(KeepaliveAction{ElapsedMS: 100000}))
	require.Empty(t, out.Bytes())
}

func TestKeepaliveNoOpWhileDisconnected(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t)
	require.Equal(t, StatusSuccessful, sess.Dispatch(KeepaliveAction{ElapsedMS: 100000}))
}

func TestResetKeepaliveSuppressesPing(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t)
	sess.Dispatch(ConnectAction{Params: ConnectParams{ClientID: "A", CleanSession: true, KeepAliveSeconds: 2}})
	out.Reset()

	sess.Dispatch(PublishAction{Request: PublishRequest{Topic: "a/b", Message: []byte("x")}})
	out.Reset()

	require.Equal(t, StatusPingNotSend, sess.Dispatch(KeepaliveAction{ElapsedMS: 1000}))
	require.Empty(t, out.Bytes())
}
