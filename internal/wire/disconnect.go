package wire

import "fmt"

// AppendDisconnect appends a DISCONNECT packet (2 bytes, empty remaining
// length) to dst.
func AppendDisconnect(dst []byte) ([]byte, error) {
	return AppendFixedHeader(dst, Disconnect, 0, 0)
}

// DecodeDisconnect validates that a decoded DISCONNECT carries no payload.
// The client never receives this packet type in a v3.1.1 session (only
// sends it), but the check exists for the broker simulator in tests.
func DecodeDisconnect(remainingLength uint32) error {
	if remainingLength != 0 {
		return fmt.Errorf("wire: DISCONNECT remaining length %d, want 0", remainingLength)
	}
	return nil
}
