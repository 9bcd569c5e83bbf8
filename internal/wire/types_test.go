package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacketTypeValid(t *testing.T) {
	t.Parallel()
	require.True(t, Connect.Valid())
	require.True(t, Disconnect.Valid())
	require.False(t, PacketType(0).Valid())
	require.False(t, PacketType(15).Valid())
}

func TestQoSValid(t *testing.T) {
	t.Parallel()
	require.True(t, QoS0.Valid())
	require.True(t, QoS1.Valid())
	require.True(t, QoS2.Valid())
	require.False(t, QoS(3).Valid())
}

func TestPacketTypeString(t *testing.T) {
	t.Parallel()
	require.Equal(t, "CONNECT", Connect.String())
	require.Contains(t, PacketType(15).String(), "15")
}
