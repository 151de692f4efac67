package analytics

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// Sink delivers events to an analytics backend.
type Sink interface {
	Send(ctx context.Context, event Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, event Event) error

// Send calls f.
func (f SinkFunc) Send(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Nop discards events.
type Nop struct{}

// Send does nothing.
func (Nop) Send(context.Context, Event) error {
	return nil
}

// Multi sends every event to all of its sinks. Every sink is tried; the
// failures are joined.
type Multi []Sink

// Send fans the event out.
func (m Multi) Send(ctx context.Context, event Event) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Send(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Send appends the event.
func (r *Recorder) Send(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Names returns the recorded event names in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, event := range r.events {
		names = append(names, event.Name)
	}
	return names
}
