package wire

import "fmt"

// Connect flag bits, MQTT v3.1.1 section 3.1.2.3. Bit 0 is reserved and must
// always be zero.
const (
	connectFlagCleanSession uint8 = 0x02
	connectFlagWill         uint8 = 0x04
	connectFlagWillQoSShift       = 3
	connectFlagWillRetain   uint8 = 0x20
	connectFlagPassword     uint8 = 0x40
	connectFlagUsername     uint8 = 0x80
)

// connectVariableHeaderPrefix is the constant 7-byte protocol name + level
// that opens every CONNECT variable header: "00 04 MQTT 04". Keepalive and
// the flags byte follow, for a fixed 10-byte variable header.
var connectVariableHeaderPrefix = [7]byte{0x00, 0x04, 'M', 'Q', 'T', 'T', 0x04}

// ConnectFields carries the fields needed to build a CONNECT packet's
// variable header and payload. The encoder — not the caller — derives the
// flags byte from which optional
// fields are present: an empty will topic or message disarms the will
// entirely, and an empty username/password clears its flag bit even if the
// caller set one of the Has* fields.
type ConnectFields struct {
	ClientID         string
	CleanSession     bool
	KeepAliveSeconds uint16
	WillTopic        string
	WillMessage      string
	WillQoS          QoS
	WillRetain       bool // the wire spec calls this "permanent_will"
	Username         string
	HasUsername      bool
	Password         string
	HasPassword      bool
}

// hasWill reports whether both will strings are present: the last will is
// only armed when topic and message are both non-empty.
func (f ConnectFields) hasWill() bool {
	return f.WillTopic != "" && f.WillMessage != ""
}

// AppendConnect appends a complete CONNECT packet (fixed header, 10-byte
// variable header, and payload) for f to dst.
func AppendConnect(dst []byte, f ConnectFields) ([]byte, error) {
	if len(f.ClientID) < 1 || len(f.ClientID) > 23 {
		return nil, fmt.Errorf("wire: client id length %d outside required range [1,23]", len(f.ClientID))
	}

	will := f.hasWill()
	willQoS := f.WillQoS
	if !will {
		willQoS = QoS0
	} else if !willQoS.Valid() {
		return nil, fmt.Errorf("wire: invalid will QoS %d", willQoS)
	}

	var flags uint8
	if f.CleanSession {
		flags |= connectFlagCleanSession
	}
	if will {
		flags |= connectFlagWill
		flags |= uint8(willQoS) << connectFlagWillQoSShift
		if f.WillRetain {
			flags |= connectFlagWillRetain
		}
	}
	hasUsername := f.HasUsername && f.Username != ""
	hasPassword := f.HasPassword && f.Password != ""
	if hasUsername {
		flags |= connectFlagUsername
	}
	if hasPassword {
		flags |= connectFlagPassword
	}

	payloadLen := 2 + len(f.ClientID)
	if will {
		payloadLen += 2 + len(f.WillTopic) + 2 + len(f.WillMessage)
	}
	if hasUsername {
		payloadLen += 2 + len(f.Username)
	}
	if hasPassword {
		payloadLen += 2 + len(f.Password)
	}
	remainingLength := uint32(len(connectVariableHeaderPrefix) + 3 + payloadLen)

	dst, err := AppendFixedHeader(dst, Connect, 0, remainingLength)
	if err != nil {
		return nil, err
	}
	dst = append(dst, connectVariableHeaderPrefix[:]...)
	dst = append(dst, flags, byte(f.KeepAliveSeconds>>8), byte(f.KeepAliveSeconds))

	dst = appendString(dst, f.ClientID)
	if will {
		dst = appendString(dst, f.WillTopic)
		dst = appendBinary(dst, []byte(f.WillMessage))
	}
	if hasUsername {
		dst = appendString(dst, f.Username)
	}
	if hasPassword {
		dst = appendString(dst, f.Password)
	}
	return dst, nil
}

// DecodeConnect decodes a CONNECT packet's variable header and payload from
// buf (the bytes following the fixed header). The core never needs to parse
// a CONNECT it receives — a client only ever sends this packet — but the
// decoder exists to make the codec round-trip testable and to back a broker
// simulator in tests.
func DecodeConnect(buf []byte) (ConnectFields, error) {
	if len(buf) < 10 {
		return ConnectFields{}, fmt.Errorf("wire: buffer too short for CONNECT variable header")
	}
	for i, want := range connectVariableHeaderPrefix {
		if buf[i] != want {
			return ConnectFields{}, fmt.Errorf("wire: CONNECT variable header byte %d = 0x%02x, want 0x%02x", i, buf[i], want)
		}
	}
	flags := buf[7]
	if flags&0x01 != 0 {
		return ConnectFields{}, fmt.Errorf("wire: CONNECT reserved flag bit 0 is set")
	}
	keepAlive := uint16(buf[8])<<8 | uint16(buf[9])
	offset := 10

	clientID, n, err := decodeString(buf[offset:])
	if err != nil {
		return ConnectFields{}, fmt.Errorf("wire: decoding CONNECT client id: %w", err)
	}
	offset += n

	f := ConnectFields{
		ClientID:         clientID,
		CleanSession:     flags&connectFlagCleanSession != 0,
		KeepAliveSeconds: keepAlive,
	}

	if flags&connectFlagWill != 0 {
		f.WillQoS = QoS((flags >> connectFlagWillQoSShift) & 0x03)
		if !f.WillQoS.Valid() {
			return ConnectFields{}, fmt.Errorf("wire: invalid will QoS %d in CONNECT flags", f.WillQoS)
		}
		f.WillRetain = flags&connectFlagWillRetain != 0
		willTopic, n, err := decodeString(buf[offset:])
		if err != nil {
			return ConnectFields{}, fmt.Errorf("wire: decoding CONNECT will topic: %w", err)
		}
		offset += n
		willMessage, n, err := decodeBinary(buf[offset:])
		if err != nil {
			return ConnectFields{}, fmt.Errorf("wire: decoding CONNECT will message: %w", err)
		}
		offset += n
		f.WillTopic = willTopic
		f.WillMessage = string(willMessage)
	}

	if flags&connectFlagUsername != 0 {
		username, n, err := decodeString(buf[offset:])
		if err != nil {
			return ConnectFields{}, fmt.Errorf("wire: decoding CONNECT username: %w", err)
		}
		offset += n
		f.Username = username
		f.HasUsername = true
	}

	if flags&connectFlagPassword != 0 {
		password, _, err := decodeString(buf[offset:])
		if err != nil {
			return ConnectFields{}, fmt.Errorf("wire: decoding CONNECT password: %w", err)
		}
		f.Password = password
		f.HasPassword = true
	}

	return f, nil
}
