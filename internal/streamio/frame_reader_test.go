package streamio

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/asoderlund/miniqtt/internal/wire"
)

func TestReadFrameReassemblesOnePacket(t *testing.T) {
	t.Parallel()
	publish, err := wire.AppendPublish(nil, wire.PublishFields{Topic: "a/b", Message: []byte("hi")})
	require.NoError(t, err)

	pingreq, err := wire.AppendPingReq(nil)
	require.NoError(t, err)

	stream := bytes.NewReader(append(append([]byte{}, publish...), pingreq...))
	reader := NewFrameReader(stream)

	ctx := context.Background()
	first, err := reader.ReadFrame(ctx)
	require.NoError(t, err)
	require.Equal(t, publish, first)

	second, err := reader.ReadFrame(ctx)
	require.NoError(t, err)
	require.Equal(t, pingreq, second)
}

func TestReadFrameRespectsContextCancellation(t *testing.T) {
	t.Parallel()
	blocked, unblock := readerThatNeverReturns()
	t.Cleanup(unblock)
	reader := NewFrameReader(blocked)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := reader.ReadFrame(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunDeliversFramesInOrder(t *testing.T) {
	t.Parallel()
	pingreq, err := wire.AppendPingReq(nil)
	require.NoError(t, err)
	disconnect, err := wire.AppendDisconnect(nil)
	require.NoError(t, err)

	stream := bytes.NewReader(append(append([]byte{}, pingreq...), disconnect...))
	reader := NewFrameReader(stream)

	var delivered [][]byte
	ctx, cancel := context.WithCancel(context.Background())
	err = reader.Run(ctx, func(frame []byte) error {
		delivered = append(delivered, frame)
		if len(delivered) == 2 {
			cancel()
		}
		return nil
	})
	// Run ends either because the reader hit EOF after the last frame or
	// because cancel() fired first; either way it must report an error and
	// must have delivered both frames in order.
	require.Error(t, err)
	require.Equal(t, [][]byte{pingreq, disconnect}, delivered)
}

// readerThatNeverReturns returns an io.Reader whose Read call blocks forever,
// to exercise ReadFrame's context-cancellation path.
func readerThatNeverReturns() (*blockingReader, func()) {
	done := make(chan struct{})
	return &blockingReader{done: done}, func() { close(done) }
}

type blockingReader struct {
	done chan struct{}
}

func (b *blockingReader) Read(p []byte) (int, error) {
	<-b.done
	return 0, context.Canceled
}
