// Package testing provides test utilities for the realtime library.
//
// It offers an in-process WebSocket event server for integration testing,
// following Go's convention of dedicated testing packages (similar to
// net/http/httptest).
//
// Key utilities:
//   - StartEventServer: embedded event server with frame capture and
//     scripted pushes
//   - NewTestLogger: types.Logger writing through testing.T
//
// Example usage:
//
//	import (
//	    "testing"
//	    rtest "github.com/chimariIT/realtime/testing"
//	)
//
//	func TestMySubscriber(t *testing.T) {
//	    srv := rtest.StartEventServer(t)
//	    cfg := realtime.Config{URL: srv.URL()}
//	    // ...
//	}
package testing
