package events

import (
	"context"
	"sync"
)

// Recorded is one event captured by a Recorder.
type Recorded struct {
	Topic string
	Event any
}

// Recorder keeps published events in memory and optionally forwards them to
// another publisher. The HTTP layer uses it to return parse failures next to
// the model they belong to.
type Recorder struct {
	next Publisher

	mu     sync.Mutex
	events []Recorded
}

func NewRecorder(next Publisher) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Publish(ctx context.Context, topic string, event any) error {
	r.mu.Lock()
	r.events = append(r.events, Recorded{Topic: topic, Event: event})
	r.mu.Unlock()

	if r.next != nil {
		return r.next.Publish(ctx, topic, event)
	}
	return nil
}

// Close does not close the wrapped publisher; its owner does.
func (r *Recorder) Close() error {
	return nil
}

func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

// ParseFailures returns the recorded FileParseFailed events in publish order.
func (r *Recorder) ParseFailures() []FileParseFailed {
	var failures []FileParseFailed
	for _, e := range r.Events() {
		if f, ok := e.Event.(FileParseFailed); ok {
			failures = append(failures, f)
		}
	}
	return failures
}
