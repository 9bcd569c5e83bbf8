package wire

// AppendPingReq appends a PINGREQ packet (2 bytes, empty remaining length)
// to dst.
func AppendPingReq(dst []byte) ([]byte, error) {
	return AppendFixedHeader(dst, PingReq, 0, 0)
}
