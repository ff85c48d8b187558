package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chimariIT/realtime/types"
)

var errConnClosed = errors.New("use of closed connection")

// fakeConn is an in-memory types.Conn driven by the test.
type fakeConn struct {
	mu         sync.Mutex
	closed     bool
	frames     []string // JSON of every WriteJSON call
	closeCodes []int    // codes from WriteControl close frames

	inbound chan []byte
	readErr chan error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 64),
		readErr: make(chan error, 1),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case p := <-c.inbound:
		return websocket.TextMessage, p, nil
	case err := <-c.readErr:
		return 0, nil, err
	}
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errConnClosed
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.frames = append(c.frames, string(data))

	return nil
}

func (c *fakeConn) WriteControl(messageType int, data []byte, _ time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if messageType == websocket.CloseMessage && len(data) >= 2 {
		c.closeCodes = append(c.closeCodes, int(data[0])<<8|int(data[1]))
	}

	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		select {
		case c.readErr <- errConnClosed:
		default:
		}
	}

	return nil
}

// push delivers a payload to the session's read loop.
func (c *fakeConn) push(payload string) {
	c.inbound <- []byte(payload)
}

// failRead makes the next ReadMessage return the given error.
func (c *fakeConn) failRead(err error) {
	c.readErr <- err
}

// sentFrames returns a copy of all frames written by the session.
func (c *fakeConn) sentFrames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.frames))
	copy(out, c.frames)

	return out
}

func (c *fakeConn) framesOfType(typ string) []string {
	var out []string
	for _, f := range c.sentFrames() {
		var frame struct {
			Type string `json:"type"`
		}
		if json.Unmarshal([]byte(f), &frame) == nil && frame.Type == typ {
			out = append(out, f)
		}
	}

	return out
}

// fakeDialer scripts dial outcomes. With an empty script every dial
// succeeds with a fresh fakeConn.
type fakeDialer struct {
	mu        sync.Mutex
	errs      []error // scripted failures consumed first
	alwaysErr error   // when set, every dial fails
	dials     int
	urls      []string
	conns     []*fakeConn
}

func (d *fakeDialer) Dial(_ context.Context, target string) (types.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dials++
	d.urls = append(d.urls, target)

	if d.alwaysErr != nil {
		return nil, d.alwaysErr
	}

	if len(d.errs) > 0 {
		err := d.errs[0]
		d.errs = d.errs[1:]
		if err != nil {
			return nil, err
		}
	}

	conn := newFakeConn()
	d.conns = append(d.conns, conn)

	return conn, nil
}

func (d *fakeDialer) setAlwaysErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alwaysErr = err
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.dials
}

func (d *fakeDialer) lastConn() *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.conns) == 0 {
		return nil
	}

	return d.conns[len(d.conns)-1]
}

func (d *fakeDialer) connAt(i int) *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.conns[i]
}

// fakeMetrics records collector calls for assertions.
type fakeMetrics struct {
	mu              sync.Mutex
	transitions     [][2]types.ConnectionState
	reconnectDelays []time.Duration
	dropped         []string
	messages        int
	handlerPanics   int
	heartbeats      int
}

func (f *fakeMetrics) RecordStateTransition(from, to types.ConnectionState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions = append(f.transitions, [2]types.ConnectionState{from, to})
}

func (f *fakeMetrics) RecordMessage(_ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages++
}

func (f *fakeMetrics) RecordDroppedPayload(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropped = append(f.dropped, reason)
}

func (f *fakeMetrics) RecordReconnect(_ int, delay time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconnectDelays = append(f.reconnectDelays, delay)
}

func (f *fakeMetrics) RecordHeartbeat(_ bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heartbeats++
}

func (f *fakeMetrics) RecordHandlerPanic() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlerPanics++
}

func (f *fakeMetrics) delays() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]time.Duration, len(f.reconnectDelays))
	copy(out, f.reconnectDelays)

	return out
}

func (f *fakeMetrics) droppedReasons() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.dropped))
	copy(out, f.dropped)

	return out
}

// testConfig returns a config tuned for fast deterministic tests.
func testConfig() Config {
	return Config{
		URL:                  "ws://events.test/ws",
		MaxReconnectAttempts: 3,
		ReconnectBaseDelay:   time.Millisecond,
		ReconnectMaxDelay:    8 * time.Millisecond,
		HeartbeatInterval:    time.Hour, // keep pings out of most tests
		ConnectionTimeout:    time.Second,
	}
}

// eventJSON builds a deliverable event payload.
func eventJSON(typ, sourceType, sourceID string) string {
	return `{
		"type": "` + typ + `",
		"sourceType": "` + sourceType + `",
		"sourceId": "` + sourceID + `",
		"userId": "u1",
		"timestamp": "2026-08-30T12:00:00Z",
		"data": {}
	}`
}
