package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisconnectRoundTrip(t *testing.T) {
	t.Parallel()
	dst, err := AppendDisconnect(nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0xE0, 0x00}, dst)

	header, _, err := DecodeFixedHeader(dst)
	require.NoError(t, err)
	require.Equal(t, Disconnect, header.Type)
	require.NoError(t, DecodeDisconnect(header.RemainingLength))
}

func TestDecodeDisconnectRejectsPayload(t *testing.T) {
	t.Parallel()
	require.Error(t, DecodeDisconnect(3))
}
