package realtime

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewPrometheusMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewPrometheusMetrics(registry, "myapp")

	dialer := &fakeDialer{}
	sess := newTestSession(t, testConfig(), dialer, WithMetrics(collector))

	require.NoError(t, sess.Connect())
	require.NoError(t, <-sess.WaitState(StateConnected, time.Second))

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}

	require.True(t, names["myapp_session_state_transitions_total"])
	require.True(t, names["myapp_session_connection_state"])
}
