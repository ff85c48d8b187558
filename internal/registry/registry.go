// Package registry tracks channel subscriptions and the last-event cache.
//
// The registry is pure bookkeeping: it stores handlers, the persistent
// channel set, and the most recent event per cache key. Fan-out, handler
// isolation, and server-side subscribe/unsubscribe requests belong to the
// owning session.
package registry

import (
	"sort"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/chimariIT/realtime/types"
)

// entry is one (id, handler) registration under a channel. Handlers are
// referenced, never copied; ids exist because func values are not
// comparable in Go.
type entry struct {
	id uint64
	fn types.EventHandler
}

// Delivery pairs a handler with the channel it was matched under.
type Delivery struct {
	Channel string
	Handler types.EventHandler
}

// Registry maps channel names to ordered handler sets and maintains the
// persistent channel set and the last-event cache.
//
// Handler and channel mutation is not synchronized here; the owning session
// serializes all access through its own lock (single-owner model). The
// last-event cache is an xsync.Map because immediate-replay reads it from
// short-lived goroutines outside the session lock.
type Registry struct {
	handlers   map[string][]entry
	persistent map[string]struct{}
	nextID     uint64
	cache      *xsync.Map[string, types.Event]
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		handlers:   make(map[string][]entry),
		persistent: make(map[string]struct{}),
		cache:      xsync.NewMap[string, types.Event](),
	}
}

// Add registers a handler under the given channel, creating the channel
// entry if absent, and returns the registration id used to remove it.
// Persistent channels are re-declared to the server after reconnection.
func (r *Registry) Add(channel string, fn types.EventHandler, persistent bool) uint64 {
	r.nextID++
	id := r.nextID
	r.handlers[channel] = append(r.handlers[channel], entry{id: id, fn: fn})
	if persistent {
		r.persistent[channel] = struct{}{}
	}

	return id
}

// Remove deletes a single registration. When the last handler of a channel
// is removed, the channel itself is dropped from both the handler map and
// the persistent set; the return value reports that so the session can send
// a server-side unsubscribe.
func (r *Registry) Remove(channel string, id uint64) (channelRemoved bool) {
	entries, ok := r.handlers[channel]
	if !ok {
		return false
	}

	for i, en := range entries {
		if en.id == id {
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}

	if len(entries) == 0 {
		delete(r.handlers, channel)
		delete(r.persistent, channel)

		return true
	}

	r.handlers[channel] = entries

	return false
}

// RemoveChannel drops a channel and all its handlers regardless of how many
// remain. Returns false when the channel was not registered.
func (r *Registry) RemoveChannel(channel string) bool {
	if _, ok := r.handlers[channel]; !ok {
		return false
	}

	delete(r.handlers, channel)
	delete(r.persistent, channel)

	return true
}

// Has reports whether the channel has at least one handler.
func (r *Registry) Has(channel string) bool {
	_, ok := r.handlers[channel]

	return ok
}

// HandlerCount returns the number of handlers registered under a channel.
func (r *Registry) HandlerCount(channel string) int {
	return len(r.handlers[channel])
}

// Channels returns the active channel set in sorted order.
func (r *Registry) Channels() []string {
	out := make([]string, 0, len(r.handlers))
	for ch := range r.handlers {
		out = append(out, ch)
	}
	sort.Strings(out)

	return out
}

// PersistentChannels returns the persistent channel set in sorted order.
// These are the channels re-declared to the server in one batch after a
// successful reconnection.
func (r *Registry) PersistentChannels() []string {
	out := make([]string, 0, len(r.persistent))
	for ch := range r.persistent {
		out = append(out, ch)
	}
	sort.Strings(out)

	return out
}

// Matches collects the handlers an event must be delivered to, in the fixed
// key order: exact (sourceType:sourceId), type-wide (type:sourceType),
// global ("all", then "*"). A handler registered under several matching
// channels receives one delivery per registration.
func (r *Registry) Matches(ev types.Event) []Delivery {
	keys := [...]string{ev.ExactChannel(), ev.TypeChannel(), types.ChannelAll, types.ChannelWildcard}

	var out []Delivery
	for _, key := range keys {
		for _, en := range r.handlers[key] {
			out = append(out, Delivery{Channel: key, Handler: en.fn})
		}
	}

	return out
}

// UpdateCache stores the event as the most recent one for its cache key.
func (r *Registry) UpdateCache(ev types.Event) {
	r.cache.Store(ev.CacheKey(), ev)
}

// LatestMatch returns the most recent cached event (by timestamp) that
// would be delivered under the given channel. Used to serve late
// subscribers that requested immediate replay.
func (r *Registry) LatestMatch(channel string) (types.Event, bool) {
	var (
		best  types.Event
		found bool
	)

	r.cache.Range(func(_ string, ev types.Event) bool {
		if !ev.Matches(channel) {
			return true
		}
		if !found || ev.Timestamp.After(best.Timestamp) {
			best = ev
			found = true
		}

		return true
	})

	return best, found
}

// Clear removes all handlers, persistent channels, and cached events.
func (r *Registry) Clear() {
	r.handlers = make(map[string][]entry)
	r.persistent = make(map[string]struct{})
	r.cache.Clear()
}
