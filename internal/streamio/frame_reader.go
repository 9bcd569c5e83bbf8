// Package streamio is a reference transport-reassembly helper: it reads one
// complete, framed MQTT control packet off an io.Reader before handing it to
// the caller, so the core's ParseInputStreamAction can assume it always
// receives exactly one whole packet per invocation.
package streamio

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/asoderlund/miniqtt/internal/wire"
)

// FrameReader reassembles MQTT control packets off a byte-stream transport.
// It is not part of the codec/state-machine core — framing-completeness at
// the transport layer is deliberately out of scope there — but every caller
// needs something like it to satisfy the core's one-packet-per-upcall
// contract.
type FrameReader struct {
	r io.Reader
}

// NewFrameReader wraps r for frame-at-a-time reads.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// maxFixedHeaderLen is the largest a fixed header can be: 1 type/flags byte
// plus up to 4 varint continuation bytes.
const maxFixedHeaderLen = 5

// readFrame reads one complete fixed-header-plus-body packet, blocking
// until it has done so or the underlying reader errors.
func (f *FrameReader) readFrame() ([]byte, error) {
	var header [maxFixedHeaderLen]byte
	if _, err := io.ReadFull(f.r, header[:1]); err != nil {
		return nil, fmt.Errorf("streamio: reading fixed header type/flags: %w", err)
	}

	n := 1
	for {
		if n >= len(header) {
			return nil, fmt.Errorf("streamio: remaining length varint exceeds 4 bytes")
		}
		if _, err := io.ReadFull(f.r, header[n:n+1]); err != nil {
			return nil, fmt.Errorf("streamio: reading remaining length byte: %w", err)
		}
		continues := header[n]&0x80 != 0
		n++
		if !continues {
			break
		}
	}

	remainingLength, _, err := wire.DecodeVarInt(header[1:n])
	if err != nil {
		return nil, fmt.Errorf("streamio: decoding remaining length: %w", err)
	}

	frame := make([]byte, n, n+int(remainingLength))
	copy(frame, header[:n])
	if remainingLength > 0 {
		body := make([]byte, remainingLength)
		if _, err := io.ReadFull(f.r, body); err != nil {
			return nil, fmt.Errorf("streamio: reading packet body (%d bytes): %w", remainingLength, err)
		}
		frame = append(frame, body...)
	}
	return frame, nil
}

// ReadFrame blocks until one complete packet has arrived, or ctx is done.
// The read itself is not cancellable mid-flight — a stuck transport stays
// stuck — but a caller that only wants a bounded wait (the convenience
// façade's Connect) gets one back via ctx.
func (f *FrameReader) ReadFrame(ctx context.Context) ([]byte, error) {
	type result struct {
		frame []byte
		err   error
	}
	done := make(chan result, 1)
	go func() {
		frame, err := f.readFrame()
		done <- result{frame, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.frame, res.err
	}
}

// Run continuously reads framed packets and hands each to deliver, until
// ctx is done or either side errors. It pairs a framing-read goroutine with
// a dispatch-delivery goroutine under one errgroup.Group, so a transport
// error on one side cleanly cancels the other: parsed packets are posted to
// the delivery goroutine through a channel rather than dispatched straight
// off the reader goroutine. deliver is expected to call
// Session.Dispatch(ParseInputStreamAction{...}) and is invoked on the
// delivery goroutine only, never concurrently.
func (f *FrameReader) Run(ctx context.Context, deliver func([]byte) error) error {
	frames := make(chan []byte)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(frames)
		for {
			frame, err := f.readFrame()
			if err != nil {
				return err
			}
			select {
			case frames <- frame:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case frame, ok := <-frames:
				if !ok {
					return nil
				}
				if err := deliver(frame); err != nil {
					return err
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	return g.Wait()
}
