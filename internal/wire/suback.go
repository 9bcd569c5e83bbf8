package wire

import (
	"encoding/binary"
	"fmt"
)

// SubAckResult is the decoded SUBACK result for the single filter this core
// subscribes per packet.
type SubAckResult struct {
	PacketID   uint16
	Success    bool
	GrantedQoS QoS
}

// DecodeSubAck decodes a SUBACK packet's variable header and payload from
// buf (the bytes following the fixed header). Exactly one return code is
// read, since the core never sends more than one topic filter per
// SUBSCRIBE. The fixed header must already have been stripped via
// DecodeFixedHeader: indexing a fixed byte offset into the whole packet
// instead would break once the remaining-length varint needs two bytes, so
// this decoder only ever sees the post-header slice.
func DecodeSubAck(buf []byte) (SubAckResult, error) {
	if len(buf) < 3 {
		return SubAckResult{}, fmt.Errorf("wire: buffer too short for SUBACK")
	}
	packetID := binary.BigEndian.Uint16(buf[0:2])
	code := buf[2]
	if code == SubAckFailure {
		return SubAckResult{PacketID: packetID, Success: false}, nil
	}
	qos := QoS(code)
	if !qos.Valid() {
		return SubAckResult{}, fmt.Errorf("wire: invalid SUBACK return code 0x%02x", code)
	}
	return SubAckResult{PacketID: packetID, Success: true, GrantedQoS: qos}, nil
}

// AppendSubAck appends a SUBACK packet to dst. The client never sends this
// packet; the encoder exists for the broker simulator in tests.
func AppendSubAck(dst []byte, packetID uint16, success bool, grantedQoS QoS) ([]byte, error) {
	dst, err := AppendFixedHeader(dst, SubAck, 0, 3)
	if err != nil {
		return nil, err
	}
	dst = append(dst, byte(packetID>>8), byte(packetID))
	if !success {
		return append(dst, SubAckFailure), nil
	}
	return append(dst, byte(grantedQoS)), nil
}
