package realtime

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chimariIT/realtime/internal/heartbeat"
	"github.com/chimariIT/realtime/internal/logging"
	"github.com/chimariIT/realtime/internal/metrics"
	"github.com/chimariIT/realtime/internal/registry"
	"github.com/chimariIT/realtime/types"
)

// Session is a long-lived client-side event-distribution session.
//
// A Session owns exactly one transport connection at a time (or none), a
// connection state machine, the subscription registry, and the last-event
// cache. It survives network interruption via capped exponential backoff,
// keeps the connection alive with periodic heartbeats, and fans inbound
// events out to subscribed handlers by exact channel, source-type wildcard,
// and global wildcard.
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - State transitions are serialized; observers see them in order
//   - Handlers run on the read loop, one inbound message at a time
//
// Lifecycle:
//   - Create with New()
//   - Call Connect() to establish the connection
//   - Subscribe() to channels; handlers fire as events arrive
//   - Call Destroy() for terminal teardown
//
// Consumers can define minimal interfaces for mocking:
//
//	type EventSource interface {
//	    Subscribe(channel string, handler realtime.EventHandler, opts ...realtime.SubscribeOption) (func(), error)
//	    IsConnected() bool
//	}
type Session struct {
	cfg          Config
	dialer       types.Dialer
	tokenSources []types.TokenSource
	logger       types.Logger
	metrics      types.MetricsCollector

	registry *registry.Registry
	monitor  *heartbeat.Monitor

	// state is read without the session lock so observer callbacks and the
	// heartbeat sender can query it re-entrantly.
	state atomic.Int32

	// connVal mirrors conn for lock-free reads by the heartbeat sender.
	connVal atomic.Value // connBox

	// writeMu serializes all transport writes; gorilla connections do not
	// support concurrent writers.
	writeMu sync.Mutex

	mu             sync.Mutex
	conn           types.Conn
	epoch          uint64 // bumped on connect/disconnect/destroy; stale timers check it
	attempts       int
	reconnectTimer *time.Timer
	dialCancel     context.CancelFunc
	destroyed      bool
	stats          types.ConnectionStats
	listeners      []stateListener
	nextListenerID uint64
	wg             sync.WaitGroup
}

// stateListener is one registered state-change observer.
type stateListener struct {
	id uint64
	fn func(ConnectionState)
}

// connBox wraps a Conn for storage in an atomic.Value, which cannot hold a
// bare nil interface.
type connBox struct {
	conn types.Conn
}

// New creates a new Session with the provided configuration.
//
// The session starts in StateDisconnected and does not dial until Connect
// is called, so its lifetime is owned entirely by the host application and
// teardown is deterministic.
//
// Parameters:
//   - cfg: Session configuration; zero fields are filled with defaults
//   - opts: Optional dependencies (logger, metrics, dialer, token sources)
//
// Returns:
//   - *Session: Initialized session instance
//   - error: Validation error if the configuration is invalid
//
// Example:
//
//	cfg := realtime.Config{URL: "https://app.example.com"}
//	sess, err := realtime.New(&cfg, realtime.WithTokenSources(store))
//	if err != nil {
//	    return err
//	}
//	defer sess.Destroy()
//	_ = sess.Connect()
func New(cfg *Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &sessionOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Safe defaults for optional dependencies avoid nil checks everywhere.
	loggerInstance := options.logger
	if loggerInstance == nil {
		if cfg.Debug {
			loggerInstance = logging.NewSlogDebug()
		} else {
			loggerInstance = logging.NewNop()
		}
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	dialerInstance := options.dialer
	if dialerInstance == nil {
		dialerInstance = newWSDialer(cfg.ConnectionTimeout)
	}

	s := &Session{
		cfg:          *cfg,
		dialer:       dialerInstance,
		tokenSources: options.tokenSources,
		logger:       loggerInstance,
		metrics:      metricsCollector,
		registry:     registry.New(),
	}

	s.state.Store(int32(StateDisconnected))
	s.connVal.Store(connBox{})

	s.monitor = heartbeat.New(&pingSender{session: s}, cfg.HeartbeatInterval)
	s.monitor.SetLogger(loggerInstance)
	s.monitor.SetMetrics(metricsCollector)

	return s, nil
}

// Connect begins establishing the transport connection.
//
// Idempotent: calling it while connecting or connected is a no-op. The dial
// runs in the background; failures are routed through the reconnection
// policy and surface via state-change observers, never as a return value.
//
// Returns:
//   - error: ErrDestroyed after Destroy, nil otherwise
func (s *Session) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return ErrDestroyed
	}

	switch s.State() {
	case StateConnecting, StateConnected:
		return nil
	}

	s.connectLocked()

	return nil
}

// Disconnect closes the connection with the normal close code and moves the
// session to StateDisconnected.
//
// Any pending reconnect timer is cancelled and the heartbeat monitor is
// stopped before this method returns; a manual disconnect never triggers
// automatic reconnection.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}

	s.disconnectLocked()
}

// Destroy tears the session down terminally: disconnect, cancel all timers,
// clear the subscription registry, listeners, and last-event cache.
//
// It blocks until in-flight handler invocations finish, so no callback of
// any kind fires after it returns. The session must not be used afterwards.
func (s *Session) Destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()

		return
	}

	s.disconnectLocked()
	s.destroyed = true
	s.listeners = nil
	s.registry.Clear()
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("session destroyed")
}

// State returns the current connection state.
func (s *Session) State() ConnectionState {
	return ConnectionState(s.state.Load())
}

// IsConnected reports whether the session is currently connected.
func (s *Session) IsConnected() bool {
	return s.State() == StateConnected
}

// Stats returns a copy of the cumulative connection statistics.
func (s *Session) Stats() ConnectionStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}

// OnConnectionStateChange registers a state-change observer.
//
// The listener is invoked immediately with the current state, then
// synchronously on every future transition, in registration order relative
// to other listeners. Listener panics are recovered and logged.
//
// Listeners run while the session lock is held: they may query State,
// IsConnected, and other lock-free accessors, but must not call Subscribe,
// Connect, or other mutating methods directly (dispatch to another
// goroutine for that).
//
// Returns:
//   - func(): Deregistration function; safe to call multiple times
func (s *Session) OnConnectionStateChange(fn func(ConnectionState)) func() {
	s.mu.Lock()

	if s.destroyed {
		s.mu.Unlock()

		return func() {}
	}

	s.nextListenerID++
	listener := stateListener{id: s.nextListenerID, fn: fn}
	s.listeners = append(s.listeners, listener)
	s.notifyListener(listener, s.State())
	s.mu.Unlock()

	id := listener.id

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)

				break
			}
		}
	}
}

// WaitState waits for the session to reach the expected state within the
// timeout period. Useful for tests and host-application synchronization.
//
// The returned channel receives exactly one value: nil when the state is
// reached, or context.DeadlineExceeded on timeout. The channel is closed
// after sending.
//
// Example:
//
//	_ = sess.Connect()
//	if err := <-sess.WaitState(realtime.StateConnected, 5*time.Second); err != nil {
//	    return fmt.Errorf("not connected: %w", err)
//	}
func (s *Session) WaitState(expected ConnectionState, timeout time.Duration) <-chan error {
	ch := make(chan error, 1) // Buffered to prevent goroutine leak

	go func() {
		defer close(ch)

		if s.State() == expected {
			ch <- nil

			return
		}

		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()

		timeoutTimer := time.NewTimer(timeout)
		defer timeoutTimer.Stop()

		for {
			select {
			case <-ticker.C:
				if s.State() == expected {
					ch <- nil

					return
				}
			case <-timeoutTimer.C:
				ch <- context.DeadlineExceeded

				return
			}
		}
	}()

	return ch
}

// HandleVisibilityChange is an environment retrigger for hosts that track
// page or window visibility. When the application becomes visible and the
// session sits disconnected or failed, a new connection attempt starts.
//
// This is a convenience layered on top of the reconnection policy, not a
// replacement for it.
func (s *Session) HandleVisibilityChange(visible bool) {
	if !visible {
		return
	}

	switch s.State() {
	case StateDisconnected, StateFailed:
		_ = s.Connect()
	}
}

// HandleNetworkOnline is an environment retrigger for hosts that observe
// network availability. Unless already connected or connecting, a new
// connection attempt starts.
func (s *Session) HandleNetworkOnline() {
	switch s.State() {
	case StateConnected, StateConnecting:
		return
	}

	_ = s.Connect()
}

// validTransitions defines the allowed connection state transitions.
var validTransitions = map[ConnectionState][]ConnectionState{
	StateDisconnected: {StateConnecting},
	StateConnecting:   {StateConnected, StateReconnecting, StateFailed, StateDisconnected},
	StateConnected:    {StateReconnecting, StateFailed, StateDisconnected},
	StateReconnecting: {StateConnecting, StateFailed, StateDisconnected},
	StateFailed:       {StateConnecting, StateReconnecting, StateDisconnected},
}

// isValidTransition validates that a state transition is allowed.
func isValidTransition(from, to ConnectionState) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

// transitionLocked moves to a new state and notifies observers.
// Callers must hold s.mu.
func (s *Session) transitionLocked(to ConnectionState) {
	from := s.State()
	if from == to {
		return
	}

	if !isValidTransition(from, to) {
		s.logger.Error("invalid state transition attempted",
			"from", from.String(),
			"to", to.String(),
		)

		return
	}

	s.state.Store(int32(to))

	s.logger.Info("connection state changed",
		"from", from.String(),
		"to", to.String(),
	)

	s.metrics.RecordStateTransition(from, to)

	for _, listener := range s.listeners {
		s.notifyListener(listener, to)
	}
}

// notifyListener invokes one observer, isolating panics.
func (s *Session) notifyListener(listener stateListener, state ConnectionState) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("state listener panicked", "panic", r)
		}
	}()

	listener.fn(state)
}
