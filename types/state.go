package types

// ConnectionState represents the session connection lifecycle state.
//
// States follow a defined progression during normal operation:
//
//	StateDisconnected → StateConnecting → StateConnected
//
// After an abnormal closure:
//
//	StateConnected → StateReconnecting → StateConnecting → StateConnected
//
// StateFailed is entered on transport errors and when reconnection attempts
// are exhausted. It is left only by a manual Connect call or an environment
// retrigger (network online, page visible).
type ConnectionState int32

const (
	// StateDisconnected is the initial state and the state after a manual
	// disconnect or a normal server-side closure.
	StateDisconnected ConnectionState = iota

	// StateConnecting indicates a dial is in flight.
	StateConnecting

	// StateConnected indicates an open transport with active subscriptions.
	StateConnected

	// StateReconnecting indicates a reconnect attempt is scheduled.
	StateReconnecting

	// StateFailed indicates a transport error or exhausted reconnection
	// attempts. No automatic recovery happens from this state.
	StateFailed
)

// String returns the string representation of the state.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateReconnecting:
		return "Reconnecting"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
