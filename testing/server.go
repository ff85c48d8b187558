package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// Frame is a captured client request frame (subscribe, unsubscribe, ping).
type Frame struct {
	Type     string   `json:"type"`
	Channels []string `json:"channels"`
}

// EventServer is an in-process WebSocket event server for tests.
//
// It accepts connections on /ws (any path, in fact), captures every frame
// clients send, acknowledges subscribes and pings the way the production
// server does, and lets tests push arbitrary payloads to all connected
// clients or drop connections with a chosen close code.
//
// Benefits over an external fixture:
//   - Zero external dependencies
//   - Fast startup, random port, parallel-test friendly
//   - Automatic cleanup via t.Cleanup()
type EventServer struct {
	t   *testing.T
	srv *httptest.Server

	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	frames []Frame
	tokens []string
}

// StartEventServer starts an embedded event server.
//
// The server and all client connections are closed automatically when the
// test completes.
func StartEventServer(t *testing.T) *EventServer {
	t.Helper()

	es := &EventServer{
		t:     t,
		conns: make(map[*websocket.Conn]struct{}),
	}
	es.srv = httptest.NewServer(http.HandlerFunc(es.handle))
	t.Cleanup(es.Close)

	return es
}

// URL returns the server's base URL with the http scheme. The session's
// endpoint resolution translates it to ws:// and appends /ws.
func (es *EventServer) URL() string {
	return es.srv.URL
}

// Close shuts the server down and drops all client connections.
func (es *EventServer) Close() {
	es.mu.Lock()
	for conn := range es.conns {
		_ = conn.Close()
	}
	es.conns = make(map[*websocket.Conn]struct{})
	es.mu.Unlock()

	es.srv.Close()
}

// Push writes the JSON encoding of v to every connected client.
func (es *EventServer) Push(v any) {
	es.t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		es.t.Fatalf("failed to marshal push payload: %v", err)
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	for conn := range es.conns {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
}

// PushRaw writes a raw payload to every connected client, letting tests
// send malformed JSON.
func (es *EventServer) PushRaw(data []byte) {
	es.mu.Lock()
	defer es.mu.Unlock()

	for conn := range es.conns {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
}

// DropClients closes every client connection abruptly, without a close
// frame. Clients observe a transport-level error.
func (es *EventServer) DropClients() {
	es.mu.Lock()
	defer es.mu.Unlock()

	for conn := range es.conns {
		_ = conn.Close()
	}
	es.conns = make(map[*websocket.Conn]struct{})
}

// CloseClients sends a close frame with the given code to every client,
// then closes the connections. Use websocket.CloseNormalClosure to simulate
// a graceful server shutdown and any other code for an abnormal one.
func (es *EventServer) CloseClients(code int) {
	es.mu.Lock()
	defer es.mu.Unlock()

	msg := websocket.FormatCloseMessage(code, "")
	for conn := range es.conns {
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = conn.Close()
	}
	es.conns = make(map[*websocket.Conn]struct{})
}

// Frames returns a copy of all captured client frames in arrival order.
func (es *EventServer) Frames() []Frame {
	es.mu.Lock()
	defer es.mu.Unlock()

	out := make([]Frame, len(es.frames))
	copy(out, es.frames)

	return out
}

// FramesOfType returns the captured frames with the given type.
func (es *EventServer) FramesOfType(typ string) []Frame {
	var out []Frame
	for _, f := range es.Frames() {
		if f.Type == typ {
			out = append(out, f)
		}
	}

	return out
}

// Tokens returns the ?token= query values observed on each connection
// attempt, in order. Unauthenticated connections record an empty string.
func (es *EventServer) Tokens() []string {
	es.mu.Lock()
	defer es.mu.Unlock()

	out := make([]string, len(es.tokens))
	copy(out, es.tokens)

	return out
}

// ConnCount returns the number of currently connected clients.
func (es *EventServer) ConnCount() int {
	es.mu.Lock()
	defer es.mu.Unlock()

	return len(es.conns)
}

// WaitForConns blocks until n clients are connected or the timeout expires.
func (es *EventServer) WaitForConns(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if es.ConnCount() >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}

	return es.ConnCount() >= n
}

func (es *EventServer) handle(w http.ResponseWriter, r *http.Request) {
	es.mu.Lock()
	es.tokens = append(es.tokens, r.URL.Query().Get("token"))
	es.mu.Unlock()

	conn, err := es.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	es.mu.Lock()
	es.conns[conn] = struct{}{}
	es.mu.Unlock()

	es.writeJSON(conn, map[string]string{"type": "connection_established"})

	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			es.mu.Lock()
			delete(es.conns, conn)
			es.mu.Unlock()

			return
		}

		es.mu.Lock()
		es.frames = append(es.frames, frame)
		es.mu.Unlock()

		switch frame.Type {
		case "subscribe":
			es.writeJSON(conn, map[string]string{"type": "subscription_confirmed"})
		case "unsubscribe":
			es.writeJSON(conn, map[string]string{"type": "unsubscription_confirmed"})
		case "ping":
			es.writeJSON(conn, map[string]string{"type": "pong"})
		}
	}
}

// writeJSON serializes writes under the server mutex; gorilla connections
// do not support concurrent writers.
func (es *EventServer) writeJSON(conn *websocket.Conn, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	if _, ok := es.conns[conn]; !ok {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}
