package audit

import "context"

// Sink accepts events for eventual persistence. Implementations must not
// block the caller's request path.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// ChannelSink hands events to a buffered channel drained by a Worker. When
// the buffer is full the event is dropped rather than stalling the caller;
// the audit trail is best-effort by contract.
type ChannelSink struct {
	inbox chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{inbox: make(chan Event, buffer)}
}

func (s *ChannelSink) Emit(_ context.Context, event Event) {
	select {
	case s.inbox <- event:
	default:
	}
}

// Inbox exposes the receive side for the Worker.
func (s *ChannelSink) Inbox() <-chan Event { return s.inbox }

// NopSink discards every event. Useful in tests that don't assert on audit.
type NopSink struct{}

func (NopSink) Emit(context.Context, Event) {}
