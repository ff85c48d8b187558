package types

import "time"

// ConnectionStats holds cumulative session counters.
//
// The record is created once per session, mutated by the connection
// supervisor on every relevant transition, and never reset. Session.Stats
// returns a copy, so callers can inspect it without synchronization.
type ConnectionStats struct {
	// TotalConnections counts successful transport opens, including
	// reconnections.
	TotalConnections int

	// TotalReconnections counts scheduled reconnection attempts.
	TotalReconnections int

	// MessagesReceived counts deliverable events. Control messages and
	// dropped payloads are excluded.
	MessagesReceived int

	// LastConnectedAt is the time of the most recent successful open.
	LastConnectedAt time.Time

	// LastDisconnectedAt is the time of the most recent closure, whether
	// manual, normal, or abnormal.
	LastDisconnectedAt time.Time

	// ConnectedDuration is the accumulated time spent in StateConnected
	// across all completed connection segments.
	ConnectedDuration time.Duration
}
