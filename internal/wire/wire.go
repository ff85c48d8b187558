// Package wire defines the JSON messages exchanged with the event server
// and the tagged-variant decoder for inbound payloads.
//
// Inbound payloads fall into three classes:
//   - control messages (connection/subscription acknowledgments, pong)
//   - deliverable events matching the types.Event shape
//   - everything else, which is reported as unknown and dropped
//
// The decoder never guesses: a payload either decodes into one of the
// variants or is classified as unknown, so call sites never perform ad hoc
// field presence checks.
package wire

import (
	"encoding/json"
	"time"

	"github.com/chimariIT/realtime/types"
)

// Control message types recognized on the inbound side. They acknowledge
// client requests and carry no payload the session needs to act on.
const (
	TypeConnectionEstablished   = "connection_established"
	TypeSubscriptionConfirmed   = "subscription_confirmed"
	TypeUnsubscriptionConfirmed = "unsubscription_confirmed"
	TypePong                    = "pong"
)

// Outbound message types.
const (
	TypeSubscribe   = "subscribe"
	TypeUnsubscribe = "unsubscribe"
	TypePing        = "ping"
)

// ChannelsFrame is the outbound subscribe/unsubscribe request.
type ChannelsFrame struct {
	Type     string   `json:"type"`
	Channels []string `json:"channels"`
}

// PingFrame is the outbound heartbeat message.
type PingFrame struct {
	Type string `json:"type"`
}

// NewSubscribe builds a subscribe frame for the given channels.
func NewSubscribe(channels []string) ChannelsFrame {
	return ChannelsFrame{Type: TypeSubscribe, Channels: channels}
}

// NewUnsubscribe builds an unsubscribe frame for the given channels.
func NewUnsubscribe(channels []string) ChannelsFrame {
	return ChannelsFrame{Type: TypeUnsubscribe, Channels: channels}
}

// NewPing builds a heartbeat frame.
func NewPing() PingFrame {
	return PingFrame{Type: TypePing}
}

// Kind classifies a decoded inbound payload.
type Kind int

const (
	// KindUnknown marks payloads that are neither control messages nor
	// well-formed events. They are logged and dropped.
	KindUnknown Kind = iota

	// KindControl marks server acknowledgments and heartbeat responses.
	KindControl

	// KindEvent marks deliverable events.
	KindEvent
)

// Inbound is the decoded form of an inbound payload.
type Inbound struct {
	Kind Kind

	// Type is the raw "type" field, set for all kinds so callers can log
	// unknown payloads meaningfully.
	Type string

	// Event is populated when Kind is KindEvent.
	Event types.Event
}

// envelope is the superset shape used to classify inbound payloads.
// Pointer fields distinguish absent from zero-valued.
type envelope struct {
	Type       string          `json:"type"`
	SourceType string          `json:"sourceType"`
	SourceID   string          `json:"sourceId"`
	UserID     string          `json:"userId"`
	Timestamp  *time.Time      `json:"timestamp"`
	Data       json.RawMessage `json:"data"`
}

// Decode classifies a raw inbound payload.
//
// It returns an error only for payloads that are not valid JSON or whose
// fields have the wrong types. A syntactically valid payload that matches
// neither a control type nor the event shape decodes to KindUnknown with a
// nil error.
func Decode(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Inbound{Kind: KindUnknown}, err
	}

	switch env.Type {
	case TypeConnectionEstablished, TypeSubscriptionConfirmed, TypeUnsubscriptionConfirmed, TypePong:
		return Inbound{Kind: KindControl, Type: env.Type}, nil
	}

	if env.Type == "" || env.SourceType == "" || env.SourceID == "" ||
		env.UserID == "" || env.Timestamp == nil || len(env.Data) == 0 {
		return Inbound{Kind: KindUnknown, Type: env.Type}, nil
	}

	return Inbound{
		Kind: KindEvent,
		Type: env.Type,
		Event: types.Event{
			Type:       env.Type,
			SourceType: env.SourceType,
			SourceID:   env.SourceID,
			UserID:     env.UserID,
			Timestamp:  *env.Timestamp,
			Data:       env.Data,
		},
	}, nil
}
