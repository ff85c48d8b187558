package realtime

import (
	"fmt"
	"net/url"

	"github.com/chimariIT/realtime/types"
)

// resolveEndpoint translates the configured URL into the WebSocket dial
// target: http→ws / https→wss scheme translation, the /ws path when none is
// given, and an optional ?token= query parameter resolved from the ordered
// credential sources.
func resolveEndpoint(rawURL string, sources []types.TokenSource) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse endpoint url: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// Already a WebSocket URL.
	default:
		return "", fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}

	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	if token := resolveToken(sources); token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// resolveToken returns the first non-empty token from the ordered sources,
// or an empty string when no source has credentials.
func resolveToken(sources []types.TokenSource) string {
	for _, src := range sources {
		if src == nil {
			continue
		}
		if token := src.Token(); token != "" {
			return token
		}
	}

	return ""
}
