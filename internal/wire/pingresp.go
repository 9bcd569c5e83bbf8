package wire

import "fmt"

// AppendPingResp appends a PINGRESP packet (2 bytes, empty remaining length)
// to dst. The client never sends this packet; the encoder exists for the
// broker simulator in tests.
func AppendPingResp(dst []byte) ([]byte, error) {
	return AppendFixedHeader(dst, PingResp, 0, 0)
}

// DecodePingResp validates that a decoded PINGRESP carries no payload.
func DecodePingResp(remainingLength uint32) error {
	if remainingLength != 0 {
		return fmt.Errorf("wire: PINGRESP remaining length %d, want 0", remainingLength)
	}
	return nil
}
