package realtime

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the configuration for a Session.
//
// All duration fields accept standard Go duration strings like "30s", "5m"
// when loaded from YAML. Zero values are replaced with defaults by
// ApplyDefaults, which New calls automatically.
type Config struct {
	// URL is the event server endpoint. HTTP schemes are translated to
	// their WebSocket equivalents (http→ws, https→wss) and the /ws path is
	// appended when no path is given, so the same origin URL the host
	// application uses for its API works here directly.
	URL string `yaml:"url"`

	// MaxReconnectAttempts is the number of automatic reconnection
	// attempts after an abnormal closure before the session gives up and
	// stays in StateFailed. Manual Connect calls and environment
	// retriggers still work after that.
	MaxReconnectAttempts int `yaml:"maxReconnectAttempts"`

	// ReconnectBaseDelay is the backoff base: attempt n waits
	// min(ReconnectBaseDelay * 2^n, ReconnectMaxDelay).
	ReconnectBaseDelay time.Duration `yaml:"reconnectBaseDelay"`

	// ReconnectMaxDelay caps the exponential backoff.
	ReconnectMaxDelay time.Duration `yaml:"reconnectMaxDelay"`

	// HeartbeatInterval is how often a ping frame is sent while connected,
	// keeping intermediaries from timing out the idle connection.
	HeartbeatInterval time.Duration `yaml:"heartbeatInterval"`

	// ConnectionTimeout bounds a single dial attempt. A dial still pending
	// when it expires is aborted and handled as a connection failure.
	ConnectionTimeout time.Duration `yaml:"connectionTimeout"`

	// Debug switches the default logger from no-op to slog at debug level.
	// It has no effect when a logger is provided via WithLogger.
	Debug bool `yaml:"debug"`
}

// Default configuration values.
const (
	DefaultMaxReconnectAttempts = 10
	DefaultReconnectBaseDelay   = time.Second
	DefaultReconnectMaxDelay    = 30 * time.Second
	DefaultHeartbeatInterval    = 30 * time.Second
	DefaultConnectionTimeout    = 10 * time.Second
)

// DefaultConfig returns a Config populated with default values.
// The URL field is left empty and must be set by the caller.
func DefaultConfig() Config {
	return Config{
		MaxReconnectAttempts: DefaultMaxReconnectAttempts,
		ReconnectBaseDelay:   DefaultReconnectBaseDelay,
		ReconnectMaxDelay:    DefaultReconnectMaxDelay,
		HeartbeatInterval:    DefaultHeartbeatInterval,
		ConnectionTimeout:    DefaultConnectionTimeout,
	}
}

// ApplyDefaults fills in missing configuration values with defaults.
// Custom non-zero values are preserved.
func ApplyDefaults(cfg *Config) {
	if cfg.MaxReconnectAttempts == 0 {
		cfg.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if cfg.ReconnectBaseDelay == 0 {
		cfg.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if cfg.ReconnectMaxDelay == 0 {
		cfg.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if cfg.ConnectionTimeout == 0 {
		cfg.ConnectionTimeout = DefaultConnectionTimeout
	}
}

// Validate checks the configuration for invalid values.
//
// Returns:
//   - error: Description of the first invalid field, or nil
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidConfig)
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("%w: invalid url: %w", ErrInvalidConfig, err)
	}

	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("%w: unsupported url scheme %q", ErrInvalidConfig, u.Scheme)
	}

	if c.MaxReconnectAttempts < 0 {
		return fmt.Errorf("%w: maxReconnectAttempts must not be negative", ErrInvalidConfig)
	}
	if c.ReconnectBaseDelay <= 0 {
		return fmt.Errorf("%w: reconnectBaseDelay must be positive", ErrInvalidConfig)
	}
	if c.ReconnectMaxDelay < c.ReconnectBaseDelay {
		return fmt.Errorf("%w: reconnectMaxDelay must be >= reconnectBaseDelay", ErrInvalidConfig)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("%w: heartbeatInterval must be positive", ErrInvalidConfig)
	}
	if c.ConnectionTimeout <= 0 {
		return fmt.Errorf("%w: connectionTimeout must be positive", ErrInvalidConfig)
	}

	return nil
}
