package miniqtt

import (
	"log/slog"

	"github.com/asoderlund/miniqtt/internal/wire"
)

// keepaliveGuardBandMS is subtracted from the keepalive interval so PINGREQ
// goes out before the broker's grace period expires.
const keepaliveGuardBandMS = 500

// armKeepalive derives keepaliveTotalMS/keepaliveRemainingMS from the
// negotiated keepalive interval, on a successful Connect. A zero interval
// disables keepalive entirely.
func (s *Session) armKeepalive(seconds uint16) {
	if seconds == 0 {
		s.keepaliveTotalMS = keepaliveDisabled
		s.keepaliveRemainingMS = 0
		return
	}
	total := int32(seconds)*1000 - keepaliveGuardBandMS
	if total <= 0 {
		// If K*1000 < 500 the guard band would make the interval
		// non-positive, so keepalive is declined outright rather than
		// firing continuously.
		s.keepaliveTotalMS = keepaliveDisabled
		s.keepaliveRemainingMS = 0
		return
	}
	s.keepaliveTotalMS = total
	// remaining starts at 0 so the first tick emits a ping immediately.
	s.keepaliveRemainingMS = 0
}

// resetKeepalive suppresses a redundant ping after any successful outbound
// PUBLISH/SUBSCRIBE or inbound parse.
func (s *Session) resetKeepalive() {
	if s.keepaliveTotalMS == keepaliveDisabled {
		return
	}
	s.keepaliveRemainingMS = s.keepaliveTotalMS
}

// doKeepalive implements the countdown and PINGREQ emission rules for a
// KeepaliveAction.
func (s *Session) doKeepalive(elapsedMS int32) Status {
	if s.state != StateConnected {
		return StatusSuccessful
	}
	if s.keepaliveTotalMS == keepaliveDisabled {
		return StatusSuccessful
	}

	s.keepaliveRemainingMS -= elapsedMS
	if s.keepaliveRemainingMS < 0 {
		s.keepaliveRemainingMS = 0
	}
	if s.keepaliveRemainingMS > 0 {
		return StatusPingNotSend
	}

	s.outBuf, _ = wire.AppendPingReq(s.outBuf[:0])
	st := s.write(s.outBuf)
	if st != StatusSuccessful {
		return StatusServerUnavailable
	}
	s.logf(slog.LevelDebug, "miniqtt: sent PINGREQ", "elapsed_ms", elapsedMS)
	s.keepaliveRemainingMS = s.keepaliveTotalMS
	return StatusSuccessful
}
