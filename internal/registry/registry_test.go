package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chimariIT/realtime/types"
)

func event(typ, sourceType, sourceID string, ts time.Time) types.Event {
	return types.Event{
		Type:       typ,
		SourceType: sourceType,
		SourceID:   sourceID,
		UserID:     "u1",
		Timestamp:  ts,
		Data:       []byte(`{}`),
	}
}

func TestAddRemove(t *testing.T) {
	r := New()

	id1 := r.Add("scraping:job-1", func(types.Event) {}, true)
	id2 := r.Add("scraping:job-1", func(types.Event) {}, true)
	require.Equal(t, 2, r.HandlerCount("scraping:job-1"))
	require.Equal(t, []string{"scraping:job-1"}, r.PersistentChannels())

	// Removing one handler keeps the channel alive.
	removed := r.Remove("scraping:job-1", id1)
	require.False(t, removed)
	require.True(t, r.Has("scraping:job-1"))
	require.Equal(t, []string{"scraping:job-1"}, r.PersistentChannels())

	// Removing the last handler drops the channel from both sets.
	removed = r.Remove("scraping:job-1", id2)
	require.True(t, removed)
	require.False(t, r.Has("scraping:job-1"))
	require.Empty(t, r.PersistentChannels())
}

func TestRemoveUnknown(t *testing.T) {
	r := New()
	require.False(t, r.Remove("missing", 42))

	id := r.Add("a:b", func(types.Event) {}, true)
	require.False(t, r.Remove("a:b", 9999)) // wrong id, channel survives
	require.True(t, r.Has("a:b"))
	require.True(t, r.Remove("a:b", id))
}

func TestRemoveChannel(t *testing.T) {
	r := New()
	r.Add("a:b", func(types.Event) {}, true)
	r.Add("a:b", func(types.Event) {}, true)

	require.True(t, r.RemoveChannel("a:b"))
	require.False(t, r.Has("a:b"))
	require.Empty(t, r.PersistentChannels())

	require.False(t, r.RemoveChannel("a:b"))
}

func TestNonPersistentChannels(t *testing.T) {
	r := New()
	r.Add("a:b", func(types.Event) {}, true)
	r.Add("c:d", func(types.Event) {}, false)

	require.Equal(t, []string{"a:b", "c:d"}, r.Channels())
	require.Equal(t, []string{"a:b"}, r.PersistentChannels())
}

func TestMatchesOrderAndIsolation(t *testing.T) {
	r := New()

	var order []string
	r.Add(types.ChannelWildcard, func(types.Event) {}, true)
	r.Add("scraping:job-1", func(types.Event) {}, true)
	r.Add("type:scraping", func(types.Event) {}, true)
	r.Add(types.ChannelAll, func(types.Event) {}, true)
	r.Add("streaming:job-2", func(types.Event) {}, true)

	ev := event("status_change", "scraping", "job-1", time.Now())
	deliveries := r.Matches(ev)
	require.Len(t, deliveries, 4)

	for _, d := range deliveries {
		order = append(order, d.Channel)
	}
	require.Equal(t, []string{"scraping:job-1", "type:scraping", "all", "*"}, order)
}

func TestLatestMatch(t *testing.T) {
	r := New()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	r.UpdateCache(event("status_change", "scraping", "job-1", base))
	r.UpdateCache(event("progress", "scraping", "job-1", base.Add(time.Minute)))
	r.UpdateCache(event("status_change", "streaming", "job-2", base.Add(2*time.Minute)))

	t.Run("exact channel picks newest matching entry", func(t *testing.T) {
		ev, ok := r.LatestMatch("scraping:job-1")
		require.True(t, ok)
		require.Equal(t, "progress", ev.Type)
	})

	t.Run("wildcard picks newest overall", func(t *testing.T) {
		ev, ok := r.LatestMatch(types.ChannelWildcard)
		require.True(t, ok)
		require.Equal(t, "streaming", ev.SourceType)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := r.LatestMatch("pricing:calc-9")
		require.False(t, ok)
	})
}

func TestCacheOverwrite(t *testing.T) {
	r := New()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	r.UpdateCache(event("status_change", "scraping", "job-1", base))
	r.UpdateCache(event("status_change", "scraping", "job-1", base.Add(time.Hour)))

	ev, ok := r.LatestMatch("scraping:job-1")
	require.True(t, ok)
	require.Equal(t, base.Add(time.Hour), ev.Timestamp)
}

func TestClear(t *testing.T) {
	r := New()
	r.Add("a:b", func(types.Event) {}, true)
	r.UpdateCache(event("t", "a", "b", time.Now()))

	r.Clear()

	require.Empty(t, r.Channels())
	require.Empty(t, r.PersistentChannels())
	_, ok := r.LatestMatch(types.ChannelWildcard)
	require.False(t, ok)
}
