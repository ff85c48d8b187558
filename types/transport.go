package types

import (
	"context"
	"time"
)

// Conn is a message-oriented duplex connection to the event server.
//
// The interface is a subset of *websocket.Conn from gorilla/websocket, which
// satisfies it directly. Message types and close codes follow RFC 6455.
//
// Conn implementations are not required to support concurrent writers; the
// session serializes all writes internally.
type Conn interface {
	// ReadMessage blocks until the next message arrives or the connection
	// fails. A server-initiated closure surfaces as a *websocket.CloseError.
	ReadMessage() (messageType int, p []byte, err error)

	// WriteJSON writes the JSON encoding of v as a single text message.
	WriteJSON(v any) error

	// WriteControl writes a control message with the given deadline.
	WriteControl(messageType int, data []byte, deadline time.Time) error

	// Close closes the underlying network connection without sending a
	// close frame.
	Close() error
}

// Dialer opens a Conn against a resolved endpoint URL.
//
// The default implementation wraps websocket.Dialer; tests substitute fakes
// to drive the session deterministically.
type Dialer interface {
	// Dial establishes a connection to the given ws:// or wss:// URL.
	// The context carries the connection timeout; implementations must
	// abort the attempt when it expires.
	Dial(ctx context.Context, url string) (Conn, error)
}
