package ports

import "go.trai.ch/resolvd/internal/core/domain"

// EventSink receives the structured event stream of the caches and the scheduler.
//
//go:generate mockgen -source=events.go -destination=mocks/mock_events.go -package=mocks
type EventSink interface {
	// Emit records one event. Emit must not block.
	Emit(event domain.Event)
}
