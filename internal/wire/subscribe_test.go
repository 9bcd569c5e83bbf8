package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendSubscribe(t *testing.T) {
	t.Parallel()
	dst, err := AppendSubscribe(nil, SubscribeFields{
		Topic:    "a/b",
		QoS:      QoS0,
		PacketID: 1,
	})
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x82, 0x08,
		0x00, 0x01,
		0x00, 0x03, 'a', '/', 'b',
		0x00,
	}, dst)
}

func TestSubscribeRoundTrip(t *testing.T) {
	t.Parallel()
	fields := SubscribeFields{
		Topic:    "sensors/+/temp",
		QoS:      QoS1,
		PacketID: 7,
	}
	dst, err := AppendSubscribe(nil, fields)
	require.NoError(t, err)

	header, n, err := DecodeFixedHeader(dst)
	require.NoError(t, err)
	require.Equal(t, Subscribe, header.Type)
	require.Equal(t, subscribeFlags, header.Flags)

	got, err := DecodeSubscribe(dst[n : n+int(header.RemainingLength)])
	require.NoError(t, err)
	require.Equal(t, fields, got)
}

func TestAppendSubscribeRejectsEmptyTopic(t *testing.T) {
	t.Parallel()
	_, err := AppendSubscribe(nil, SubscribeFields{QoS: QoS0})
	require.Error(t, err)
}
