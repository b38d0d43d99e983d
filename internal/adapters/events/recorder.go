// Package events provides in-memory event sinks.
package events

import (
	"slices"
	"sync"

	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
)

var _ ports.EventSink = (*Recorder)(nil)

// Recorder keeps every emitted event in order. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit appends event.
func (r *Recorder) Emit(event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Lines renders the recorded events as log lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := make([]string, 0, len(r.events))
	for _, e := range r.events {
		lines = append(lines, e.String())
	}
	return lines
}

// Count returns how many recorded events have the given kind.
func (r *Recorder) Count(kind domain.EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops every recorded event.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Tee forwards every event to each sink in order.
type Tee []ports.EventSink

// Emit forwards event.
func (t Tee) Emit(event domain.Event) {
	for _, sink := range t {
		sink.Emit(event)
	}
}
