package miniqtt

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is a package-level validator instance, the way
// github.com/go-playground/validator/v10 recommends: construct once, reuse
// across every Validate call (it caches struct reflection).
var validate = validator.New()

// ConnectParams carries the parameters a caller supplies for the Connect
// action. The last will is armed only when both WillTopic and WillMessage
// are non-empty.
type ConnectParams struct {
	ClientID         string `validate:"required,min=1,max=23"`
	KeepAliveSeconds uint16
	CleanSession     bool
	WillTopic        string
	WillMessage      string
	WillQoS          uint8 `validate:"lte=2"`
	PermanentWill    bool
	Username         string
	HasUsername      bool
	Password         string
	HasPassword      bool
}

// Validate checks ConnectParams against the struct tags above using
// go-playground/validator.
func (p ConnectParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("miniqtt: invalid connect params: %w", err)
	}
	return nil
}

// hasWill reports whether both will fields are present.
func (p ConnectParams) hasWill() bool {
	return p.WillTopic != "" && p.WillMessage != ""
}

// PublishRequest carries the parameters for the Publish action.
type PublishRequest struct {
	Topic   string `validate:"required"`
	Message []byte
	QoS     uint8 `validate:"lte=2"`
	Dup     bool
	Retain  bool
}

// Validate checks PublishRequest against the struct tags above, and rejects
// wildcard characters in the topic: a publish topic must be a concrete
// topic name, never a filter, a rule go-playground/validator's built-in
// tags don't express directly.
//
// validate.Struct already rejects a missing Topic and an out-of-range QoS.
func (p PublishRequest) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("miniqtt: invalid publish request: %w", err)
	}
	for _, c := range p.Topic {
		if c == '+' || c == '#' {
			return fmt.Errorf("miniqtt: invalid publish request: topic %q contains a wildcard", p.Topic)
		}
	}
	return nil
}

// SubscribeRequest carries the parameters for the Subscribe action. The
// core supports one topic filter per SUBSCRIBE packet.
type SubscribeRequest struct {
	Topic string `validate:"required"`
	QoS   uint8  `validate:"lte=2"`
}

// Validate checks SubscribeRequest against the struct tags above.
func (r SubscribeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("miniqtt: invalid subscribe request: %w", err)
	}
	return nil
}
