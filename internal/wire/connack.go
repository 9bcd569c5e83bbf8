package wire

import "fmt"

// ConnAckResult is the decoded CONNACK variable header. SessionPresent is
// read informationally only; this client does not persist session state
// across reconnects.
type ConnAckResult struct {
	SessionPresent bool
	ReturnCode     ConnectReturnCode
}

// AppendConnAck appends a CONNACK packet to dst. The client never sends this
// packet; the encoder exists for the broker simulator in tests.
func AppendConnAck(dst []byte, sessionPresent bool, code ConnectReturnCode) ([]byte, error) {
	var ackFlags uint8
	if sessionPresent {
		ackFlags = 0x01
	}
	dst, err := AppendFixedHeader(dst, ConnAck, 0, 2)
	if err != nil {
		return nil, err
	}
	return append(dst, ackFlags, byte(code)), nil
}

// DecodeConnAck decodes a CONNACK packet's 2-byte variable header from buf
// (the bytes following the fixed header).
func DecodeConnAck(buf []byte) (ConnAckResult, error) {
	if len(buf) < 2 {
		return ConnAckResult{}, fmt.Errorf("wire: buffer too short for CONNACK variable header")
	}
	return ConnAckResult{
		SessionPresent: buf[0]&0x01 != 0,
		ReturnCode:     ConnectReturnCode(buf[1]),
	}, nil
}
