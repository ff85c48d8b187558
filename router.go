package realtime

import (
	"github.com/chimariIT/realtime/internal/registry"
	"github.com/chimariIT/realtime/internal/wire"
	"github.com/chimariIT/realtime/types"
)

// handleInbound classifies one inbound payload and, for deliverable events,
// updates the stats and last-event cache and fans the event out to every
// matching handler. It runs on the read loop, so all handlers for an event
// complete before the next inbound message is processed.
func (s *Session) handleInbound(epoch uint64, payload []byte) {
	msg, err := wire.Decode(payload)
	if err != nil {
		s.logger.Warn("malformed inbound payload dropped", "error", err)
		s.metrics.RecordDroppedPayload("malformed")

		return
	}

	switch msg.Kind {
	case wire.KindControl:
		s.logger.Debug("control message received", "type", msg.Type)

		return
	case wire.KindUnknown:
		s.logger.Warn("unknown inbound payload dropped", "type", msg.Type)
		s.metrics.RecordDroppedPayload("unknown")

		return
	case wire.KindEvent:
	}

	ev := msg.Event

	s.mu.Lock()
	if s.destroyed || s.epoch != epoch {
		s.mu.Unlock()

		return
	}

	s.stats.MessagesReceived++
	s.metrics.RecordMessage(ev.Type)
	s.registry.UpdateCache(ev)
	deliveries := s.registry.Matches(ev)
	s.mu.Unlock()

	// Handlers run outside the session lock so they may subscribe and
	// unsubscribe freely.
	for _, d := range deliveries {
		s.invokeHandler(d, ev)
	}
}

// invokeHandler runs one handler, isolating panics so a failing handler
// cannot prevent delivery to the rest.
func (s *Session) invokeHandler(d registry.Delivery, ev types.Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event handler panicked",
				"channel", d.Channel,
				"event_type", ev.Type,
				"panic", r,
			)
			s.metrics.RecordHandlerPanic()
		}
	}()

	d.Handler(ev)
}
