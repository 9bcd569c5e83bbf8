package miniqtt

import (
	"fmt"

	"github.com/asoderlund/miniqtt/internal/wire"
)

// Status is the result code returned by Session.Dispatch and, translated to
// an error, by the convenience façade. Negative values are caller/local
// errors; 1..5 mirror the CONNACK return codes (3 also reports a transport
// write failure), and 6 reports a PUBLISH or SUBACK decode failure.
type Status int32

// Status codes.
const (
	StatusInvalidArgument      Status = -64
	StatusNoConnection         Status = -63
	StatusAlreadyConnected     Status = -62
	StatusPingNotSend          Status = -61
	StatusSuccessful           Status = 0
	StatusInvalidVersion       Status = 1
	StatusInvalidIdentifier    Status = 2
	StatusServerUnavailable    Status = 3
	StatusBadUsernameOrPass    Status = 4
	StatusNotAuthorized        Status = 5
	StatusPublishDecodeError   Status = 6
)

var statusNames = map[Status]string{
	StatusInvalidArgument:    "invalid argument",
	StatusNoConnection:       "no connection",
	StatusAlreadyConnected:   "already connected",
	StatusPingNotSend:        "ping not sent",
	StatusSuccessful:         "successful",
	StatusInvalidVersion:     "invalid protocol version",
	StatusInvalidIdentifier:  "identifier rejected",
	StatusServerUnavailable:  "server unavailable",
	StatusBadUsernameOrPass:  "bad username or password",
	StatusNotAuthorized:      "not authorized",
	StatusPublishDecodeError: "publish decode error",
}

// String returns the status's human-readable name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// Error implements the error interface, so a Status can be returned directly
// wherever the dispatcher-level API wants the raw status vocabulary, and
// compared with errors.Is by any caller holding a Status value.
func (s Status) Error() string {
	return "miniqtt: " + s.String()
}

// connAckStatus maps a CONNACK return code onto the dispatcher's Status
// vocabulary.
func connAckStatus(code wire.ConnectReturnCode) Status {
	switch code {
	case wire.ReturnCodeAccepted:
		return StatusSuccessful
	case wire.ReturnCodeUnacceptableProtocol:
		return StatusInvalidVersion
	case wire.ReturnCodeIdentifierRejected:
		return StatusInvalidIdentifier
	case wire.ReturnCodeServerUnavailable:
		return StatusServerUnavailable
	case wire.ReturnCodeBadUsernameOrPassword:
		return StatusBadUsernameOrPass
	case wire.ReturnCodeNotAuthorized:
		return StatusNotAuthorized
	default:
		return StatusServerUnavailable
	}
}

// Err converts a Status into an idiomatic error for the convenience façade.
// StatusSuccessful and StatusPingNotSend are both non-fatal from the
// façade's point of view — PingNotSend just means the keepalive clock
// hasn't expired yet — so both convert to nil.
func (s Status) Err() error {
	if s == StatusSuccessful || s == StatusPingNotSend {
		return nil
	}
	return s
}
