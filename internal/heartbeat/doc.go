// Package heartbeat provides the periodic liveness monitor for the session.
//
// The monitor sends an application-level ping frame at a fixed interval
// while the transport is open. Its sole purpose is to keep intermediary
// infrastructure (load balancers, proxies) from closing an idle connection;
// it does not track missed-heartbeat timeouts. Failure detection belongs to
// the connection supervisor, which reacts to transport errors directly.
//
// Lifecycle:
//
//	monitor := heartbeat.New(sender, 30*time.Second)
//	_ = monitor.Start()
//	defer monitor.Stop()
//
// Stop is idempotent and is called before every Start to guarantee at most
// one active ticker per session.
package heartbeat
