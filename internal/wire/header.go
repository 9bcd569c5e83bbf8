package wire

import "fmt"

// FixedHeader is the 2-to-5-byte header present on every MQTT control
// packet: a type+flags byte followed by the variable-length remaining-length
// field.
type FixedHeader struct {
	Type            PacketType
	Flags           uint8 // low nibble: retain(1) dup(1) qos(2), packing varies by packet type
	RemainingLength uint32
}

// NewPublishFlags packs the retain/dup/qos bits used by PUBLISH's fixed
// header into a flags nibble.
func NewPublishFlags(qos QoS, dup, retain bool) (uint8, error) {
	if !qos.Valid() {
		return 0, fmt.Errorf("wire: invalid QoS %d", qos)
	}
	var flags uint8
	if retain {
		flags |= 0x01
	}
	flags |= uint8(qos) << 1
	if dup {
		flags |= 0x08
	}
	return flags, nil
}

// subscribeFlags is the fixed bit pattern MQTT 3.1.1 reserves for the
// SUBSCRIBE fixed header (dup=0, qos=1, retain=0 — a quirk of the protocol,
// not an actual QoS request).
const subscribeFlags uint8 = 0b0010

// AppendFixedHeader appends the encoded fixed header for a packet of type t,
// carrying flags and remainingLength, to dst.
func AppendFixedHeader(dst []byte, t PacketType, flags uint8, remainingLength uint32) ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("wire: invalid packet type %d", t)
	}
	dst = append(dst, (byte(t)<<4)|(flags&0x0F))
	return AppendVarInt(dst, remainingLength)
}

// DecodeFixedHeader decodes the fixed header at the start of buf. It returns
// the header, the number of bytes the header itself occupied (2..5, i.e. the
// offset where the variable header begins), and an error if the type is
// reserved (0 or 15) or the QoS bits encode the reserved value 3.
func DecodeFixedHeader(buf []byte) (h FixedHeader, n int, err error) {
	if len(buf) < 1 {
		return FixedHeader{}, 0, fmt.Errorf("wire: empty buffer, no fixed header")
	}
	t := PacketType(buf[0] >> 4)
	flags := buf[0] & 0x0F
	if !t.Valid() {
		return FixedHeader{}, 0, fmt.Errorf("wire: reserved packet type %d", t)
	}
	if qos := (flags >> 1) & 0x03; qos == 3 {
		return FixedHeader{}, 0, fmt.Errorf("wire: invalid QoS 3 in fixed header flags")
	}
	remainingLength, varintLen, err := DecodeVarInt(buf[1:])
	if err != nil {
		return FixedHeader{}, 0, fmt.Errorf("wire: decoding remaining length: %w", err)
	}
	return FixedHeader{
		Type:            t,
		Flags:           flags,
		RemainingLength: remainingLength,
	}, 1 + varintLen, nil
}
