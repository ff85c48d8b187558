package types

import (
	"encoding/json"
	"time"
)

// Global wildcard channel names. Subscribing to either delivers every event.
const (
	ChannelAll      = "all"
	ChannelWildcard = "*"
)

// Event is a deliverable inbound payload.
//
// All fields except Data are required on the wire; payloads missing any of
// them are logged and dropped before reaching consumers. Data is opaque to
// the session and is passed through to handlers as raw JSON.
type Event struct {
	Type       string          `json:"type"`
	SourceType string          `json:"sourceType"`
	SourceID   string          `json:"sourceId"`
	UserID     string          `json:"userId"`
	Timestamp  time.Time       `json:"timestamp"`
	Data       json.RawMessage `json:"data"`
}

// EventHandler receives events delivered to a subscribed channel.
//
// Handlers run synchronously on the session's read loop; a slow handler
// delays subsequent inbound messages. Panics are recovered and logged
// without affecting other handlers.
type EventHandler func(Event)

// ExactChannel returns the exact-addressing channel key for the event,
// in the form "sourceType:sourceId".
func (e Event) ExactChannel() string {
	return e.SourceType + ":" + e.SourceID
}

// TypeChannel returns the source-type wildcard channel key for the event,
// in the form "type:sourceType".
func (e Event) TypeChannel() string {
	return "type:" + e.SourceType
}

// CacheKey returns the last-event cache key for the event,
// in the form "sourceType:sourceId:type".
func (e Event) CacheKey() string {
	return e.SourceType + ":" + e.SourceID + ":" + e.Type
}

// Matches reports whether the event would be delivered to subscribers of
// the given channel under any of the three addressing schemes.
func (e Event) Matches(channel string) bool {
	switch channel {
	case ChannelAll, ChannelWildcard:
		return true
	case e.ExactChannel(), e.TypeChannel():
		return true
	}

	return false
}
