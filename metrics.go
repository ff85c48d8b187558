package realtime

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chimariIT/realtime/internal/metrics"
)

// NewPrometheusMetrics returns a MetricsCollector backed by Prometheus.
//
// Metrics are registered lazily on first use, so constructing a collector
// that is never wired into a session registers nothing.
//
// Parameters:
//   - reg: Target registerer; nil uses prometheus.DefaultRegisterer
//   - namespace: Metric name prefix; empty defaults to "realtime"
//
// Example:
//
//	registry := prometheus.NewRegistry()
//	collector := realtime.NewPrometheusMetrics(registry, "myapp")
//	sess, _ := realtime.New(&cfg, realtime.WithMetrics(collector))
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}
