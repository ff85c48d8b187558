// Package realtime provides a client-side event-distribution session over a
// persistent WebSocket connection.
//
// A Session multiplexes many logical channel subscriptions over one
// connection, survives network interruption with capped exponential
// backoff, keeps the connection alive with periodic heartbeats, and fans
// inbound events out to subscribed handlers. A most-recent-event cache
// serves late subscribers immediately.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import "github.com/chimariIT/realtime"
//
//	cfg := realtime.Config{URL: "https://app.example.com"}
//	sess, err := realtime.New(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Destroy()
//
//	unsubscribe, _ := sess.Subscribe("scraping:job-1", func(ev realtime.Event) {
//	    log.Printf("job update: %s", ev.Type)
//	})
//	defer unsubscribe()
//
//	_ = sess.Connect()
//
// # Channel Addressing
//
// Three addressing schemes coexist; an event is delivered to the union of
// listeners under all keys that match it:
//
//   - exact: "sourceType:sourceId" (e.g. "scraping:job-1")
//   - source-type wildcard: "type:sourceType" (e.g. "type:scraping")
//   - global: "all" or "*"
//
// # Connection Lifecycle
//
// The session moves through a validated state machine:
//
//	Disconnected → Connecting → Connected
//
// Abnormal closures enter the reconnection path (Reconnecting → Connecting)
// with delay min(base * 2^n, cap) per attempt. When attempts are exhausted
// the session parks in Failed until a manual Connect or an environment
// retrigger (HandleNetworkOnline, HandleVisibilityChange). Persistent
// subscriptions are re-declared to the server in one batch after every
// successful reconnection.
//
// State transitions are observable:
//
//	remove := sess.OnConnectionStateChange(func(st realtime.ConnectionState) {
//	    log.Printf("connection: %s", st)
//	})
//	defer remove()
//
// # Delivery Semantics
//
// Events are delivered in arrival order, all matching handlers per event
// before the next message. Delivery is at-least-once across reconnects: the
// server may redeliver events around a reconnect boundary, and the session
// performs no deduplication. Handlers that panic are isolated, logged, and
// never abort delivery to other handlers.
package realtime
