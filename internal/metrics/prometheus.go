package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chimariIT/realtime/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	stateTransitions *prometheus.CounterVec
	stateGauge       prometheus.Gauge
	messages         *prometheus.CounterVec
	droppedPayloads  *prometheus.CounterVec
	reconnects       prometheus.Counter
	backoffDelay     prometheus.Histogram
	heartbeats       *prometheus.CounterVec
	handlerPanics    prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: metrics namespace (defaults to "realtime" if empty)
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "realtime"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.stateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "state_transitions_total",
			Help:      "Total connection state transitions by from/to state.",
		}, []string{"from", "to"})

		p.stateGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "connection_state",
			Help:      "Current connection state as its enum value.",
		})

		p.messages = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "messages_received_total",
			Help:      "Total deliverable events received by event type.",
		}, []string{"type"})

		p.droppedPayloads = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "dropped_payloads_total",
			Help:      "Total inbound payloads dropped by reason (malformed, unknown).",
		}, []string{"reason"})

		p.reconnects = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "reconnects_total",
			Help:      "Total scheduled reconnection attempts.",
		})

		p.backoffDelay = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "reconnect_backoff_seconds",
			Help:      "Computed reconnect backoff delays in seconds.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 16, 30},
		})

		p.heartbeats = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "heartbeats_total",
			Help:      "Total heartbeat send outcomes (success, failure).",
		}, []string{"result"})

		p.handlerPanics = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "handler_panics_total",
			Help:      "Total recovered panics from event handlers.",
		})

		p.reg.MustRegister(
			p.stateTransitions,
			p.stateGauge,
			p.messages,
			p.droppedPayloads,
			p.reconnects,
			p.backoffDelay,
			p.heartbeats,
			p.handlerPanics,
		)
	})
}

// RecordStateTransition records a connection state change.
func (p *PrometheusCollector) RecordStateTransition(from, to types.ConnectionState) {
	p.ensureRegistered()
	p.stateTransitions.WithLabelValues(from.String(), to.String()).Inc()
	p.stateGauge.Set(float64(to))
}

// RecordMessage records one delivered event by event type.
func (p *PrometheusCollector) RecordMessage(eventType string) {
	p.ensureRegistered()
	p.messages.WithLabelValues(eventType).Inc()
}

// RecordDroppedPayload records a dropped inbound payload.
func (p *PrometheusCollector) RecordDroppedPayload(reason string) {
	p.ensureRegistered()
	p.droppedPayloads.WithLabelValues(reason).Inc()
}

// RecordReconnect records a scheduled reconnection attempt.
func (p *PrometheusCollector) RecordReconnect(_ int, delay time.Duration) {
	p.ensureRegistered()
	p.reconnects.Inc()
	p.backoffDelay.Observe(delay.Seconds())
}

// RecordHeartbeat records a heartbeat send outcome.
func (p *PrometheusCollector) RecordHeartbeat(success bool) {
	p.ensureRegistered()
	if success {
		p.heartbeats.WithLabelValues("success").Inc()
	} else {
		p.heartbeats.WithLabelValues("failure").Inc()
	}
}

// RecordHandlerPanic records a recovered handler panic.
func (p *PrometheusCollector) RecordHandlerPanic() {
	p.ensureRegistered()
	p.handlerPanics.Inc()
}
