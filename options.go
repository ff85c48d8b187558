package realtime

import "github.com/chimariIT/realtime/types"

// Option configures a Session with optional dependencies.
type Option func(*sessionOptions)

// sessionOptions holds optional Session configuration.
type sessionOptions struct {
	logger       types.Logger
	metrics      types.MetricsCollector
	dialer       types.Dialer
	tokenSources []types.TokenSource
}

// WithLogger sets a logger.
//
// Example:
//
//	logger := zap.NewExample().Sugar()
//	sess, _ := realtime.New(&cfg, realtime.WithLogger(logger))
func WithLogger(logger types.Logger) Option {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Example:
//
//	collector := realtime.NewPrometheusMetrics(nil, "myapp")
//	sess, _ := realtime.New(&cfg, realtime.WithMetrics(collector))
func WithMetrics(metrics types.MetricsCollector) Option {
	return func(o *sessionOptions) {
		o.metrics = metrics
	}
}

// WithDialer sets a custom transport dialer.
//
// The default dialer wraps gorilla/websocket. Tests substitute fakes to
// drive the session deterministically without a network.
func WithDialer(dialer types.Dialer) Option {
	return func(o *sessionOptions) {
		o.dialer = dialer
	}
}

// WithTokenSources sets the ordered credential sources used to resolve the
// bearer token appended to the endpoint URL. The first source returning a
// non-empty token wins; when all are empty the connection is made
// unauthenticated.
//
// Example:
//
//	sess, _ := realtime.New(&cfg, realtime.WithTokenSources(
//	    sessionStore,                          // preferred
//	    realtime.StaticTokenSource(apiToken),  // fallback
//	))
func WithTokenSources(sources ...types.TokenSource) Option {
	return func(o *sessionOptions) {
		o.tokenSources = sources
	}
}
