package wire

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// appendString appends an MQTT-encoded UTF-8 string (2-byte big-endian
// length prefix + bytes) to dst.
func appendString(dst []byte, s string) []byte {
	length := uint16(len(s))
	dst = append(dst, byte(length>>8), byte(length))
	return append(dst, s...)
}

// appendBinary appends length-prefixed binary data to dst. Used for the
// PUBLISH payload's will-message counterpart in CONNECT.
func appendBinary(dst []byte, data []byte) []byte {
	length := uint16(len(data))
	dst = append(dst, byte(length>>8), byte(length))
	return append(dst, data...)
}

// decodeString decodes an MQTT UTF-8 string (2-byte length + data) from the
// start of buf. Returns the string, bytes consumed, and any error.
func decodeString(buf []byte) (string, int, error) {
	if len(buf) < 2 {
		return "", 0, fmt.Errorf("wire: buffer too short for string length")
	}
	length := int(buf[0])<<8 | int(buf[1])
	if len(buf) < 2+length {
		return "", 0, fmt.Errorf("wire: buffer too short for string data: need %d, have %d", 2+length, len(buf))
	}
	s := string(buf[2 : 2+length])
	if strings.IndexByte(s, 0) >= 0 {
		return "", 0, fmt.Errorf("wire: string contains a null byte, which MQTT forbids")
	}
	if !utf8.ValidString(s) {
		return "", 0, fmt.Errorf("wire: invalid UTF-8 string")
	}
	return s, 2 + length, nil
}

// decodeBinary reads length-prefixed binary data from the start of buf.
// The returned slice is a view into buf, not a copy.
func decodeBinary(buf []byte) ([]byte, int, error) {
	if len(buf) < 2 {
		return nil, 0, fmt.Errorf("wire: buffer too short for binary length")
	}
	length := int(buf[0])<<8 | int(buf[1])
	if len(buf) < 2+length {
		return nil, 0, fmt.Errorf("wire: buffer too short for binary data: need %d, have %d", 2+length, len(buf))
	}
	return buf[2 : 2+length], 2 + length, nil
}
