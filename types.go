package realtime

import "github.com/chimariIT/realtime/types"

// Re-export types from the types subpackage.
//
// This file provides a stable public API for the library's core types and
// interfaces via type aliases. Internal packages depend on the types
// subpackage directly, which avoids import cycles while users only need to
// import the root realtime package.
type (
	ConnectionState = types.ConnectionState
	ConnectionStats = types.ConnectionStats
	Event           = types.Event
	EventHandler    = types.EventHandler
)

// Re-export interfaces from the types subpackage for convenience.
type (
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
	Conn             = types.Conn
	Dialer           = types.Dialer
	TokenSource      = types.TokenSource
)

// Re-export ConnectionState constants from the types subpackage.
const (
	StateDisconnected = types.StateDisconnected
	StateConnecting   = types.StateConnecting
	StateConnected    = types.StateConnected
	StateReconnecting = types.StateReconnecting
	StateFailed       = types.StateFailed
)

// Re-export wildcard channel names from the types subpackage.
const (
	ChannelAll      = types.ChannelAll
	ChannelWildcard = types.ChannelWildcard
)

// StaticTokenSource returns a TokenSource that always yields the given
// token. See types.StaticTokenSource.
func StaticTokenSource(token string) TokenSource {
	return types.StaticTokenSource(token)
}
