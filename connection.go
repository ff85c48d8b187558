package realtime

import (
	"context"
	"time"

	"github.com/chimariIT/realtime/internal/backoff"
	"github.com/chimariIT/realtime/internal/wire"
	"github.com/chimariIT/realtime/types"
)

// connectLocked starts a dial attempt. Callers must hold s.mu and have
// verified the session is not destroyed and not already connecting or
// connected.
func (s *Session) connectLocked() {
	s.cancelReconnectLocked()
	s.transitionLocked(StateConnecting)

	target, err := resolveEndpoint(s.cfg.URL, s.tokenSources)
	if err != nil {
		s.logger.Error("failed to resolve endpoint", "url", s.cfg.URL, "error", err)
		s.transitionLocked(StateFailed)
		s.scheduleReconnectLocked()

		return
	}

	s.epoch++
	epoch := s.epoch

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ConnectionTimeout)
	s.dialCancel = cancel

	s.wg.Add(1)
	go s.dial(ctx, cancel, epoch, target)
}

// dial performs one connection attempt and, on success, installs the
// transport and starts the read loop and heartbeat monitor.
func (s *Session) dial(ctx context.Context, cancel context.CancelFunc, epoch uint64, target string) {
	defer s.wg.Done()
	defer cancel()

	conn, err := s.dialer.Dial(ctx, target)

	s.mu.Lock()

	// A disconnect, destroy, or newer connect superseded this attempt.
	if s.destroyed || s.epoch != epoch {
		s.mu.Unlock()
		if err == nil {
			_ = conn.Close()
		}

		return
	}

	s.dialCancel = nil

	if err != nil {
		s.logger.Warn("connection attempt failed", "error", err)
		s.transitionLocked(StateFailed)
		s.scheduleReconnectLocked()
		s.mu.Unlock()

		return
	}

	s.conn = conn
	s.connVal.Store(connBox{conn: conn})
	s.attempts = 0
	s.stats.TotalConnections++
	s.stats.LastConnectedAt = time.Now()

	s.transitionLocked(StateConnected)
	s.resubscribeLocked()

	// Stop before start guards against duplicate tickers when a previous
	// teardown raced with this open.
	s.monitor.Stop()
	if startErr := s.monitor.Start(); startErr != nil {
		s.logger.Error("failed to start heartbeat monitor", "error", startErr)
	}

	s.wg.Add(1)
	go s.readLoop(conn, epoch)

	s.mu.Unlock()
}

// readLoop pumps inbound messages until the connection fails or is closed.
func (s *Session) readLoop(conn types.Conn, epoch uint64) {
	defer s.wg.Done()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			s.handleReadError(epoch, err)

			return
		}

		s.handleInbound(epoch, payload)
	}
}

// handleReadError tears down the failed connection and decides between the
// disconnected terminal (normal closure) and the reconnection path.
func (s *Session) handleReadError(epoch uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Disconnect or Destroy already tore this connection down.
	if s.destroyed || s.epoch != epoch {
		return
	}

	s.teardownConnLocked()

	if isNormalClosure(err) {
		s.logger.Info("connection closed by server", "error", err)
		s.transitionLocked(StateDisconnected)

		return
	}

	if _, isClose := closeCode(err); isClose {
		// Abnormal close codes go straight to the reconnection path.
		s.logger.Warn("connection closed abnormally", "error", err)
		s.scheduleReconnectLocked()

		return
	}

	// Transport-level error: failed first, then reconnect.
	s.logger.Warn("transport error", "error", err)
	s.transitionLocked(StateFailed)
	s.scheduleReconnectLocked()
}

// scheduleReconnectLocked arms the reconnect timer, or parks the session in
// StateFailed when attempts are exhausted. Callers must hold s.mu.
func (s *Session) scheduleReconnectLocked() {
	if s.destroyed {
		return
	}

	if s.attempts >= s.cfg.MaxReconnectAttempts {
		s.logger.Error("reconnection attempts exhausted",
			"attempts", s.attempts,
			"max", s.cfg.MaxReconnectAttempts,
		)
		s.transitionLocked(StateFailed)

		return
	}

	s.transitionLocked(StateReconnecting)
	s.stats.TotalReconnections++

	delay := backoff.Delay(s.attempts, s.cfg.ReconnectBaseDelay, s.cfg.ReconnectMaxDelay)
	s.metrics.RecordReconnect(s.attempts, delay)
	s.logger.Info("scheduling reconnect",
		"attempt", s.attempts+1,
		"delay", delay,
	)

	epoch := s.epoch
	s.reconnectTimer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.destroyed || s.epoch != epoch {
			return
		}

		s.reconnectTimer = nil
		s.attempts++
		s.connectLocked()
	})
}

// cancelReconnectLocked stops a pending reconnect timer, if any.
func (s *Session) cancelReconnectLocked() {
	if s.reconnectTimer != nil {
		s.reconnectTimer.Stop()
		s.reconnectTimer = nil
	}
}

// disconnectLocked performs the manual disconnect sequence: cancel timers,
// stop the heartbeat monitor, close the transport with the normal code, and
// settle in StateDisconnected. Callers must hold s.mu.
func (s *Session) disconnectLocked() {
	s.epoch++
	s.cancelReconnectLocked()

	if s.dialCancel != nil {
		s.dialCancel()
		s.dialCancel = nil
	}

	s.teardownConnLocked()
	s.attempts = 0
	s.transitionLocked(StateDisconnected)
}

// teardownConnLocked stops the heartbeat monitor, closes the transport if
// present, and records disconnect statistics. Callers must hold s.mu.
func (s *Session) teardownConnLocked() {
	s.monitor.Stop()

	if s.conn == nil {
		return
	}

	closeNormal(s.conn)
	s.conn = nil
	s.connVal.Store(connBox{})

	now := time.Now()
	s.stats.LastDisconnectedAt = now
	if !s.stats.LastConnectedAt.IsZero() {
		s.stats.ConnectedDuration += now.Sub(s.stats.LastConnectedAt)
	}
}

// resubscribeLocked re-declares every persistent channel to the server in
// one batched request. Callers must hold s.mu with the transport open.
func (s *Session) resubscribeLocked() {
	channels := s.registry.PersistentChannels()
	if len(channels) == 0 {
		return
	}

	s.sendFrameLocked(wire.NewSubscribe(channels))
	s.logger.Info("restored persistent subscriptions", "channels", len(channels))
}

// sendFrameLocked writes one JSON frame to the current transport. Write
// errors are logged only; the read loop notices a dead connection and
// drives the reconnection path.
func (s *Session) sendFrameLocked(frame any) {
	conn := s.conn
	if conn == nil {
		return
	}

	s.writeMu.Lock()
	err := conn.WriteJSON(frame)
	s.writeMu.Unlock()

	if err != nil {
		s.logger.Warn("failed to send frame", "error", err)
	}
}

// pingSender adapts the session to the heartbeat.Sender interface. It reads
// only lock-free session state, so the monitor never contends with the
// session lock.
type pingSender struct {
	session *Session
}

// Ready reports whether pings should currently be sent.
func (p *pingSender) Ready() bool {
	box, _ := p.session.connVal.Load().(connBox)

	return box.conn != nil && p.session.State() == StateConnected
}

// SendPing writes one heartbeat frame.
func (p *pingSender) SendPing() error {
	box, _ := p.session.connVal.Load().(connBox)
	if box.conn == nil {
		return nil
	}

	p.session.writeMu.Lock()
	defer p.session.writeMu.Unlock()

	return box.conn.WriteJSON(wire.NewPing())
}
