package types

import "time"

// MetricsCollector defines hooks for recording session observability data.
//
// Implementations must be safe for concurrent use and must not block: the
// session calls these methods from the connection supervisor, the read loop,
// and the liveness monitor.
//
// A no-op implementation is used when no collector is configured, so the
// session never needs nil checks.
type MetricsCollector interface {
	// RecordStateTransition records a connection state change.
	RecordStateTransition(from, to ConnectionState)

	// RecordMessage records one delivered event by event type.
	RecordMessage(eventType string)

	// RecordDroppedPayload records an inbound payload that never reached
	// consumers. Reason is one of "malformed" or "unknown".
	RecordDroppedPayload(reason string)

	// RecordReconnect records a scheduled reconnection attempt and the
	// backoff delay computed for it.
	RecordReconnect(attempt int, delay time.Duration)

	// RecordHeartbeat records a heartbeat send outcome.
	RecordHeartbeat(success bool)

	// RecordHandlerPanic records a recovered panic from an event handler.
	RecordHandlerPanic()
}
