package audit

import (
	"context"
	"log"
	"sync"
)

type Event struct {
	UserID    *uint
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
	RequestID string
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Sink persists one event. *Logger is the production sink.
type Sink interface {
	Log(ev Event) error
}

type Dispatcher struct {
	sink  Sink
	queue chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(sink Sink) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Log(ev); err != nil {
			log.Println("audit error:", err)
		}
	}
}

// Dispatch never blocks the request path; a full queue drops the event.
// The request id carried by ctx is attached when the event has none.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	if d == nil {
		return
	}
	if ev.RequestID == "" {
		ev.RequestID = RequestIDFrom(ctx)
	}
	select {
	case d.queue <- ev:
	default:
		log.Println("audit queue full, dropping event", ev.Action)
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}
