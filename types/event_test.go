package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventChannelKeys(t *testing.T) {
	ev := Event{
		Type:       "status_change",
		SourceType: "scraping",
		SourceID:   "job-1",
	}

	require.Equal(t, "scraping:job-1", ev.ExactChannel())
	require.Equal(t, "type:scraping", ev.TypeChannel())
	require.Equal(t, "scraping:job-1:status_change", ev.CacheKey())
}

func TestEventMatches(t *testing.T) {
	ev := Event{
		Type:       "status_change",
		SourceType: "scraping",
		SourceID:   "job-1",
	}

	require.True(t, ev.Matches("scraping:job-1"))
	require.True(t, ev.Matches("type:scraping"))
	require.True(t, ev.Matches(ChannelAll))
	require.True(t, ev.Matches(ChannelWildcard))

	require.False(t, ev.Matches("streaming:job-2"))
	require.False(t, ev.Matches("type:streaming"))
	require.False(t, ev.Matches("scraping:job-2"))
}
