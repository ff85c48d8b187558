// Package metrics provides types.MetricsCollector implementations.
package metrics

import (
	"time"

	"github.com/chimariIT/realtime/types"
)

// NopMetrics is a metrics collector that records nothing.
//
// It is the session default so call sites never nil-check the collector.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordStateTransition is a no-op.
func (n *NopMetrics) RecordStateTransition(_, _ types.ConnectionState) {}

// RecordMessage is a no-op.
func (n *NopMetrics) RecordMessage(_ string) {}

// RecordDroppedPayload is a no-op.
func (n *NopMetrics) RecordDroppedPayload(_ string) {}

// RecordReconnect is a no-op.
func (n *NopMetrics) RecordReconnect(_ int, _ time.Duration) {}

// RecordHeartbeat is a no-op.
func (n *NopMetrics) RecordHeartbeat(_ bool) {}

// RecordHandlerPanic is a no-op.
func (n *NopMetrics) RecordHandlerPanic() {}
