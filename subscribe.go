package realtime

import (
	"github.com/chimariIT/realtime/internal/wire"
	"github.com/chimariIT/realtime/types"
)

// SubscribeOption configures a single subscription.
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	immediate  bool
	persistent bool
}

// WithImmediate requests one asynchronous delivery of the most recent
// cached event matching the channel, to the new handler only, without
// blocking the subscribe call. No delivery happens when the cache holds no
// matching event.
func WithImmediate() SubscribeOption {
	return func(o *subscribeOptions) {
		o.immediate = true
	}
}

// WithoutPersistence marks the subscription as non-persistent: it is not
// re-declared to the server after a reconnection. Subscriptions are
// persistent by default.
func WithoutPersistence() SubscribeOption {
	return func(o *subscribeOptions) {
		o.persistent = false
	}
}

// Subscribe registers a handler under the given channel.
//
// Channels use one of three addressing schemes: exact
// ("sourceType:sourceId"), source-type wildcard ("type:sourceType"), or
// global ("all" or "*"). A channel may carry many handlers and a handler
// may be registered under many channels.
//
// When the session is connected, a server-side subscribe for this one
// channel is sent immediately. Persistent channels (the default) are also
// re-declared in one batch after every successful reconnection.
//
// Parameters:
//   - channel: Subscription target
//   - handler: Callback invoked per delivered event
//   - opts: Per-subscription options (WithImmediate, WithoutPersistence)
//
// Returns:
//   - func(): Unsubscribe function removing only this registration
//   - error: ErrChannelRequired, ErrHandlerRequired, or ErrDestroyed
func (s *Session) Subscribe(channel string, handler EventHandler, opts ...SubscribeOption) (func(), error) {
	if channel == "" {
		return nil, ErrChannelRequired
	}
	if handler == nil {
		return nil, ErrHandlerRequired
	}

	so := subscribeOptions{persistent: true}
	for _, opt := range opts {
		opt(&so)
	}

	s.mu.Lock()

	if s.destroyed {
		s.mu.Unlock()

		return nil, ErrDestroyed
	}

	id := s.registry.Add(channel, handler, so.persistent)
	s.logger.Debug("subscribed",
		"channel", channel,
		"persistent", so.persistent,
		"handlers", s.registry.HandlerCount(channel),
	)

	if s.State() == StateConnected {
		s.sendFrameLocked(wire.NewSubscribe([]string{channel}))
	}

	if so.immediate {
		if cached, ok := s.registry.LatestMatch(channel); ok {
			s.wg.Add(1)
			go s.deliverCached(channel, handler, cached)
		}
	}

	s.mu.Unlock()

	return func() { s.removeSubscription(channel, id) }, nil
}

// Unsubscribe removes an entire channel regardless of how many handlers
// remain, and sends a server-side unsubscribe when connected.
//
// To remove a single handler, call the function returned by Subscribe.
func (s *Session) Unsubscribe(channel string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}

	if !s.registry.RemoveChannel(channel) {
		return
	}

	s.logger.Debug("unsubscribed channel", "channel", channel)

	if s.State() == StateConnected {
		s.sendFrameLocked(wire.NewUnsubscribe([]string{channel}))
	}
}

// removeSubscription removes one handler registration. When it was the last
// handler of the channel, the channel is dropped from the registry and the
// persistent set, and a server-side unsubscribe is sent when connected.
func (s *Session) removeSubscription(channel string, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}

	if !s.registry.Remove(channel, id) {
		return
	}

	s.logger.Debug("unsubscribed last handler", "channel", channel)

	if s.State() == StateConnected {
		s.sendFrameLocked(wire.NewUnsubscribe([]string{channel}))
	}
}

// deliverCached performs the asynchronous immediate delivery of a cached
// event to a newly subscribed handler. Destroy waits for it, so teardown
// still guarantees no callbacks after return.
func (s *Session) deliverCached(channel string, handler EventHandler, ev types.Event) {
	defer s.wg.Done()

	s.mu.Lock()
	destroyed := s.destroyed
	s.mu.Unlock()

	if destroyed {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event handler panicked on cached delivery",
				"channel", channel,
				"panic", r,
			)
			s.metrics.RecordHandlerPanic()
		}
	}()

	handler(ev)
}
