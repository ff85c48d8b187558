package realtime

import "errors"

// Sentinel errors returned by the Session.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDestroyed is returned when a method is called after Destroy.
	ErrDestroyed = errors.New("session destroyed")

	// ErrChannelRequired is returned when Subscribe is called with an
	// empty channel name.
	ErrChannelRequired = errors.New("channel is required")

	// ErrHandlerRequired is returned when Subscribe is called with a nil
	// handler.
	ErrHandlerRequired = errors.New("event handler is required")
)
