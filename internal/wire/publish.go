package wire

import (
	"encoding/binary"
	"fmt"
)

// PublishFields carries the fields needed to build a PUBLISH packet.
// PacketID is only written to the wire when QoS is not QoS0.
type PublishFields struct {
	Topic    string
	Message  []byte
	QoS      QoS
	Dup      bool
	Retain   bool
	PacketID uint16
}

// AppendPublish appends a complete PUBLISH packet to dst.
func AppendPublish(dst []byte, f PublishFields) ([]byte, error) {
	if len(f.Topic) == 0 {
		return nil, fmt.Errorf("wire: publish topic must be non-empty")
	}
	flags, err := NewPublishFlags(f.QoS, f.Dup, f.Retain)
	if err != nil {
		return nil, err
	}
	variableHeaderLen := 2 + len(f.Topic)
	if f.QoS != QoS0 {
		variableHeaderLen += 2
	}
	remainingLength := uint32(variableHeaderLen + len(f.Message))

	dst, err = AppendFixedHeader(dst, Publish, flags, remainingLength)
	if err != nil {
		return nil, err
	}
	dst = appendString(dst, f.Topic)
	if f.QoS != QoS0 {
		dst = append(dst, byte(f.PacketID>>8), byte(f.PacketID))
	}
	return append(dst, f.Message...), nil
}

// PublishResult is a decoded PUBLISH packet. Message is a view into the
// buffer passed to DecodePublish; a caller that needs to retain it past the
// call must copy it — the subscribe callback is expected to consume it
// synchronously before returning. Topic is decoded into a newly allocated
// string and does not borrow from the buffer.
type PublishResult struct {
	Topic    string
	Message  []byte
	QoS      QoS
	Dup      bool
	Retain   bool
	PacketID uint16
}

// DecodePublish decodes a PUBLISH packet's variable header and payload from
// buf (the bytes following the fixed header). flags is the fixed header's
// flags nibble, which carries QoS/Dup/Retain for this packet type.
func DecodePublish(buf []byte, flags uint8) (PublishResult, error) {
	qos := QoS((flags >> 1) & 0x03)
	if !qos.Valid() {
		return PublishResult{}, fmt.Errorf("wire: invalid QoS %d in PUBLISH flags", qos)
	}
	topic, n, err := decodeString(buf)
	if err != nil {
		return PublishResult{}, fmt.Errorf("wire: decoding publish topic: %w", err)
	}
	if len(topic) == 0 {
		return PublishResult{}, fmt.Errorf("wire: publish topic must be non-empty")
	}
	offset := n

	var packetID uint16
	if qos != QoS0 {
		if len(buf) < offset+2 {
			return PublishResult{}, fmt.Errorf("wire: buffer too short for publish packet id")
		}
		packetID = binary.BigEndian.Uint16(buf[offset : offset+2])
		offset += 2
	}

	return PublishResult{
		Topic:    topic,
		Message:  buf[offset:],
		QoS:      qos,
		Dup:      flags&0x08 != 0,
		Retain:   flags&0x01 != 0,
		PacketID: packetID,
	}, nil
}
