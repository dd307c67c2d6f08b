package audit

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Log(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func TestDispatcher_CloseDrainsQueue(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)

	for i := 0; i < 10; i++ {
		d.Dispatch(context.Background(), Event{Action: "appointment_created", Entity: "appointment"})
	}
	d.Close()

	assert.Len(t, sink.events, 10)
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.Dispatch(context.Background(), Event{Action: "x"}) })
}

func TestDispatcher_AttachesRequestID(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)

	ctx := WithRequestID(context.Background(), "req-1")
	d.Dispatch(ctx, Event{Action: "slot_blocked"})
	d.Dispatch(ctx, Event{Action: "slot_unblocked", RequestID: "explicit"})
	d.Close()

	assert.Equal(t, "req-1", sink.events[0].RequestID)
	assert.Equal(t, "explicit", sink.events[1].RequestID)
}
