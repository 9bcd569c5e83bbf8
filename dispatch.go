package miniqtt

import (
	"log/slog"

	"github.com/asoderlund/miniqtt/internal/wire"
)

// Action is a tagged variant of caller intent, dispatched through a single
// entry point. Each concrete action type carries only the fields it needs,
// rather than one struct of pointers shared across every action kind — a
// typed variant rules out the class of bug where a handler reads a field
// meant for a different action.
type Action interface {
	isAction()
}

// InitAction initializes a Session. It must be the first action dispatched
// on a given Session.
type InitAction struct{ Config SessionConfig }

// ConnectAction requests a CONNECT. Preconditions: StateDisconnected.
type ConnectAction struct{ Params ConnectParams }

// DisconnectAction requests a DISCONNECT. Preconditions: StateConnected.
type DisconnectAction struct{}

// PublishAction requests a PUBLISH. Preconditions: StateConnected.
type PublishAction struct{ Request PublishRequest }

// SubscribeAction requests a SUBSCRIBE. Preconditions: StateConnected.
type SubscribeAction struct{ Request SubscribeRequest }

// KeepaliveAction supplies elapsed time since the last tick. Valid in any
// state; a no-op while StateDisconnected.
type KeepaliveAction struct{ ElapsedMS int32 }

// ParseInputStreamAction hands one complete, framed MQTT packet to the
// parser. Valid in any state.
type ParseInputStreamAction struct{ Data []byte }

func (InitAction) isAction()             {}
func (ConnectAction) isAction()          {}
func (DisconnectAction) isAction()       {}
func (PublishAction) isAction()          {}
func (SubscribeAction) isAction()        {}
func (KeepaliveAction) isAction()        {}
func (ParseInputStreamAction) isAction() {}

// Dispatch is the action dispatcher's single entry point: it validates the
// state precondition for action, then invokes the codec and updates Session
// state, returning a Status.
//
// Dispatch must not be called re-entrantly from inside a ConnectedCallback
// or SubscribeCallback fired by a previous Dispatch(ParseInputStreamAction)
// on the same Session.
func (s *Session) Dispatch(action Action) Status {
	if s.inCallback {
		return StatusInvalidArgument
	}
	if _, ok := action.(InitAction); !ok && !s.initialized {
		return StatusInvalidArgument
	}

	switch a := action.(type) {
	case InitAction:
		return s.dispatchInit(a)
	case ConnectAction:
		return s.dispatchConnect(a)
	case DisconnectAction:
		return s.dispatchDisconnect()
	case PublishAction:
		return s.dispatchPublish(a)
	case SubscribeAction:
		return s.dispatchSubscribe(a)
	case KeepaliveAction:
		s.logf(slog.LevelDebug, "miniqtt: keepalive tick", "elapsed_ms", a.ElapsedMS)
		return s.doKeepalive(a.ElapsedMS)
	case ParseInputStreamAction:
		return s.dispatchParseInputStream(a)
	default:
		return StatusInvalidArgument
	}
}

func (s *Session) dispatchInit(a InitAction) Status {
	if a.Config.Output == nil {
		return StatusInvalidArgument
	}
	s.output = a.Config.Output
	s.onConnected = a.Config.OnConnected
	s.onMessage = a.Config.OnMessage
	s.logger = a.Config.Logger
	s.state = StateDisconnected
	s.packetID = 0
	s.keepaliveTotalMS = keepaliveDisabled
	s.keepaliveRemainingMS = 0
	s.outBuf = s.outBuf[:0]
	s.initialized = true
	return StatusSuccessful
}

func (s *Session) dispatchConnect(a ConnectAction) Status {
	if s.state != StateDisconnected {
		return StatusAlreadyConnected
	}
	if err := a.Params.Validate(); err != nil {
		s.logf(slog.LevelWarn, "miniqtt: invalid connect params", "err", err)
		return StatusInvalidArgument
	}
	willQoS := wire.QoS(0)
	if a.Params.hasWill() {
		willQoS = wire.QoS(a.Params.WillQoS)
	}

	buf, err := wire.AppendConnect(s.outBuf[:0], wire.ConnectFields{
		ClientID:         a.Params.ClientID,
		CleanSession:     a.Params.CleanSession,
		KeepAliveSeconds: a.Params.KeepAliveSeconds,
		WillTopic:        a.Params.WillTopic,
		WillMessage:      a.Params.WillMessage,
		WillQoS:          willQoS,
		WillRetain:       a.Params.PermanentWill,
		Username:         a.Params.Username,
		HasUsername:      a.Params.HasUsername,
		Password:         a.Params.Password,
		HasPassword:      a.Params.HasPassword,
	})
	if err != nil {
		s.logf(slog.LevelWarn, "miniqtt: encoding CONNECT", "err", err)
		return StatusInvalidArgument
	}
	s.outBuf = buf

	if st := s.write(buf); st != StatusSuccessful {
		return st
	}

	// The state transitions to Connected optimistically, immediately after
	// a successful send, and before CONNACK has been observed. A CONNACK
	// carrying a non-zero return code later demotes the state back to
	// Disconnected. This is a preserved quirk, not a bug — tests rely on
	// the ordering.
	s.state = StateConnected
	s.armKeepalive(a.Params.KeepAliveSeconds)
	s.logf(slog.LevelDebug, "miniqtt: sent CONNECT", "client_id", a.Params.ClientID)
	return StatusSuccessful
}

func (s *Session) dispatchDisconnect() Status {
	if s.state != StateConnected {
		return StatusNoConnection
	}
	buf, err := wire.AppendDisconnect(s.outBuf[:0])
	if err != nil {
		return StatusInvalidArgument
	}
	s.outBuf = buf
	st := s.write(buf)
	s.state = StateDisconnected
	s.logf(slog.LevelDebug, "miniqtt: sent DISCONNECT")
	return st
}

func (s *Session) dispatchPublish(a PublishAction) Status {
	if s.state != StateConnected {
		return StatusNoConnection
	}
	if err := a.Request.Validate(); err != nil {
		s.logf(slog.LevelWarn, "miniqtt: invalid publish request", "err", err)
		return StatusInvalidArgument
	}
	qos := wire.QoS(a.Request.QoS)
	var packetID uint16
	if qos != wire.QoS0 {
		packetID = s.nextPacketID()
	}
	buf, err := wire.AppendPublish(s.outBuf[:0], wire.PublishFields{
		Topic:    a.Request.Topic,
		Message:  a.Request.Message,
		QoS:      qos,
		Dup:      a.Request.Dup,
		Retain:   a.Request.Retain,
		PacketID: packetID,
	})
	if err != nil {
		s.logf(slog.LevelWarn, "miniqtt: encoding PUBLISH", "err", err)
		return StatusInvalidArgument
	}
	s.outBuf = buf
	if st := s.write(buf); st != StatusSuccessful {
		return st
	}
	s.resetKeepalive()
	s.logf(slog.LevelDebug, "miniqtt: sent PUBLISH", "topic", a.Request.Topic, "bytes", len(a.Request.Message))
	return StatusSuccessful
}

func (s *Session) dispatchSubscribe(a SubscribeAction) Status {
	if s.state != StateConnected {
		return StatusNoConnection
	}
	if err := a.Request.Validate(); err != nil {
		s.logf(slog.LevelWarn, "miniqtt: invalid subscribe request", "err", err)
		return StatusInvalidArgument
	}
	packetID := s.nextPacketID()
	buf, err := wire.AppendSubscribe(s.outBuf[:0], wire.SubscribeFields{
		Topic:    a.Request.Topic,
		QoS:      wire.QoS(a.Request.QoS),
		PacketID: packetID,
	})
	if err != nil {
		s.logf(slog.LevelWarn, "miniqtt: encoding SUBSCRIBE", "err", err)
		return StatusInvalidArgument
	}
	s.outBuf = buf
	if st := s.write(buf); st != StatusSuccessful {
		return st
	}
	s.resetKeepalive()
	s.logf(slog.LevelDebug, "miniqtt: sent SUBSCRIBE", "topic", a.Request.Topic, "packet_id", packetID)
	return StatusSuccessful
}

// dispatchParseInputStream classifies the inbound packet by its fixed
// header, dispatches to the matching decoder, updates state, and fires
// callbacks.
func (s *Session) dispatchParseInputStream(a ParseInputStreamAction) Status {
	header, n, err := wire.DecodeFixedHeader(a.Data)
	if err != nil {
		s.logf(slog.LevelWarn, "miniqtt: decoding fixed header", "err", err)
		return StatusInvalidArgument
	}
	body := a.Data[n:]
	if uint32(len(body)) < header.RemainingLength {
		return StatusInvalidArgument
	}
	body = body[:header.RemainingLength]

	switch header.Type {
	case wire.ConnAck:
		return s.handleConnAck(body)
	case wire.Publish:
		return s.handlePublish(header, body)
	case wire.SubAck:
		return s.handleSubAck(body)
	case wire.PingResp:
		if err := wire.DecodePingResp(header.RemainingLength); err != nil {
			return StatusInvalidArgument
		}
		s.logf(slog.LevelDebug, "miniqtt: received PINGRESP")
		s.resetKeepalive()
		return StatusSuccessful
	case wire.PubAck, wire.PubRec, wire.PubRel, wire.PubComp, wire.UnsubAck:
		// Accepted and ignored: these acknowledge QoS1/2 flows and
		// UNSUBSCRIBE, neither of which this core implements end to end.
		s.resetKeepalive()
		return StatusSuccessful
	default:
		return StatusInvalidArgument
	}
}

func (s *Session) handleConnAck(body []byte) Status {
	result, err := wire.DecodeConnAck(body)
	if err != nil {
		s.logf(slog.LevelWarn, "miniqtt: decoding CONNACK", "err", err)
		return StatusInvalidArgument
	}
	status := connAckStatus(result.ReturnCode)
	if status == StatusSuccessful {
		s.state = StateConnected
		s.resetKeepalive()
	} else {
		s.state = StateDisconnected
	}
	s.logf(slog.LevelDebug, "miniqtt: received CONNACK", "return_code", result.ReturnCode, "session_present", result.SessionPresent)
	s.fireConnected(status)
	return StatusSuccessful
}

func (s *Session) handlePublish(header wire.FixedHeader, body []byte) Status {
	result, err := wire.DecodePublish(body, header.Flags)
	if err != nil {
		s.logf(slog.LevelWarn, "miniqtt: decoding PUBLISH", "err", err)
		s.fireMessage(StatusPublishDecodeError, Message{})
		return StatusPublishDecodeError
	}
	s.logf(slog.LevelDebug, "miniqtt: received PUBLISH", "topic", result.Topic, "bytes", len(result.Message))
	s.resetKeepalive()
	s.fireMessage(StatusSuccessful, Message{Topic: result.Topic, Payload: result.Message})
	return StatusSuccessful
}

func (s *Session) handleSubAck(body []byte) Status {
	result, err := wire.DecodeSubAck(body)
	if err != nil {
		s.logf(slog.LevelWarn, "miniqtt: decoding SUBACK", "err", err)
		s.fireMessage(StatusPublishDecodeError, Message{})
		return StatusPublishDecodeError
	}
	status := StatusSuccessful
	if !result.Success {
		status = StatusPublishDecodeError
	}
	s.resetKeepalive()
	s.fireMessage(status, Message{})
	return StatusSuccessful
}

func (s *Session) fireConnected(status Status) {
	if s.onConnected == nil {
		return
	}
	s.inCallback = true
	defer func() { s.inCallback = false }()
	s.onConnected(status)
}

func (s *Session) fireMessage(status Status, msg Message) {
	if s.onMessage == nil {
		return
	}
	s.inCallback = true
	defer func() { s.inCallback = false }()
	s.onMessage(status, msg)
}
