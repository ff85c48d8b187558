// Package backoff implements the reconnect delay policy.
package backoff

import "time"

// Delay computes the reconnect delay for the given attempt count.
//
// The policy is capped exponential growth:
//
//	delay(n) = min(base * 2^n, cap)
//
// The result is deterministic given n, with no jitter: the session layers
// its own rate limiting (MaxReconnectAttempts) on top, and a single client
// per origin does not produce thundering-herd load.
//
// Behavior:
//   - attempt < 0 is treated as 0
//   - base <= 0 falls back to 1 second
//   - capDur <= 0 falls back to 30 seconds
func Delay(attempt int, base, capDur time.Duration) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	if capDur <= 0 {
		capDur = 30 * time.Second
	}
	if capDur < base {
		return capDur
	}
	if attempt < 0 {
		attempt = 0
	}

	// Doubling a millisecond-scale base more than 62 times overflows
	// int64; the cap is reached long before that.
	if attempt >= 32 {
		return capDur
	}

	d := base << uint(attempt)
	if d <= 0 || d > capDur {
		return capDur
	}

	return d
}
