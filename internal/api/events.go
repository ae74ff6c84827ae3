package api

import "github.com/nerrad567/smarthouse/internal/home"

// emit fans a change event out to WebSocket subscribers, the MQTT publisher
// and the state recorder. Delivery failures are logged and never reach the
// client whose request caused the change.
func (s *Server) emit(ev home.Event) {
	s.hub.BroadcastEvent(ev)

	if s.publisher != nil {
		if err := s.publisher.PublishEvent(ev); err != nil {
			s.logger.Warn("failed to publish change event",
				"type", ev.Type,
				"id", ev.ID,
				"error", err,
			)
		}
	}

	if s.recorder != nil {
		s.recorder.RecordEvent(ev)
	}
}
