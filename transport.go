package realtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chimariIT/realtime/types"
)

// wsDialer adapts gorilla/websocket to the types.Dialer interface.
type wsDialer struct {
	dialer *websocket.Dialer
}

// Compile-time assertion that wsDialer implements Dialer.
var _ types.Dialer = (*wsDialer)(nil)

func newWSDialer(handshakeTimeout time.Duration) *wsDialer {
	return &wsDialer{
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: handshakeTimeout,
		},
	}
}

// Dial establishes a WebSocket connection to the given URL.
func (w *wsDialer) Dial(ctx context.Context, target string) (types.Conn, error) {
	conn, resp, err := w.dialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}

		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}

	return conn, nil
}

// closeNormal sends a close frame with the normal closure code before
// closing the underlying connection, so the server does not treat the
// disconnect as abnormal.
func closeNormal(conn types.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = conn.Close()
}

// isNormalClosure reports whether a read error represents a close with a
// "normal" (1000) or "going away" (1001) code. Anything else, including
// plain network errors, enters the reconnection path.
func isNormalClosure(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

// closeCode extracts the close code from a read error, distinguishing
// server-initiated closures from plain transport errors.
func closeCode(err error) (int, bool) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, true
	}

	return 0, false
}
