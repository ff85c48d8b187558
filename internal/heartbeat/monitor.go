package heartbeat

import (
	"errors"
	"sync"
	"time"

	"github.com/chimariIT/realtime/types"
)

// Common errors for monitor operations.
var (
	ErrAlreadyStarted = errors.New("monitor already started")
	ErrNoSender       = errors.New("sender not set")
)

// Sender transmits heartbeat frames on behalf of the monitor.
//
// Implementations must be safe for concurrent use and must not block on the
// session lock: the monitor calls Ready and SendPing from its own goroutine
// while the session may be stopping it.
type Sender interface {
	// Ready reports whether the transport is open and pings should be sent.
	Ready() bool

	// SendPing writes one heartbeat frame.
	SendPing() error
}

// Monitor sends periodic heartbeats while the transport reports ready.
//
// Pings are skipped silently when the sender is not ready; the monitor keeps
// ticking so a transport that reopens between ticks resumes heartbeats
// without a restart.
type Monitor struct {
	sender   Sender
	interval time.Duration
	logger   types.Logger
	metrics  types.MetricsCollector

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a heartbeat monitor.
//
// Parameters:
//   - sender: transport adapter used to emit ping frames
//   - interval: time between pings (typically 30s)
func New(sender Sender, interval time.Duration) *Monitor {
	return &Monitor{
		sender:   sender,
		interval: interval,
	}
}

// SetLogger sets the logger. Optional; messages are dropped when unset.
func (m *Monitor) SetLogger(logger types.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger = logger
}

// SetMetrics sets the metrics collector. Optional.
func (m *Monitor) SetMetrics(metrics types.MetricsCollector) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics = metrics
}

// Start begins the heartbeat loop in a background goroutine.
//
// Returns ErrAlreadyStarted when the monitor is already running and
// ErrNoSender when no sender was provided.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if m.sender == nil {
		return ErrNoSender
	}

	m.started = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})

	go m.loop(m.stopCh, m.doneCh)

	return nil
}

// Stop terminates the heartbeat loop and waits for it to exit.
//
// Idempotent: stopping a monitor that is not running is a no-op. The
// monitor can be started again afterwards.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()

		return
	}

	m.started = false
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// IsStarted reports whether the monitor is currently running.
func (m *Monitor) IsStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.started
}

func (m *Monitor) loop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !m.sender.Ready() {
				continue
			}
			m.ping()
		}
	}
}

func (m *Monitor) ping() {
	err := m.sender.SendPing()

	m.mu.Lock()
	logger, metrics := m.logger, m.metrics
	m.mu.Unlock()

	if metrics != nil {
		metrics.RecordHeartbeat(err == nil)
	}
	if err != nil && logger != nil {
		logger.Warn("failed to send heartbeat", "error", err)
	}
}
