package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/resolvd/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the concrete logger Graft node.
	// The app uses it to apply output settings.
	NodeID graft.ID = "adapter.logger"
	// PortNodeID is the unique identifier for the ports.Logger Graft node.
	PortNodeID graft.ID = "adapter.logger.port"
	// EventSinkNodeID is the unique identifier for the event sink Graft node.
	EventSinkNodeID graft.ID = "adapter.logger.events"
)

func init() {
	graft.Register(graft.Node[*Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Logger, error) {
			return New(), nil
		},
	})

	graft.Register(graft.Node[ports.Logger]{
		ID:        PortNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			return graft.Dep[*Logger](ctx)
		},
	})

	graft.Register(graft.Node[ports.EventSink]{
		ID:        EventSinkNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.EventSink, error) {
			return graft.Dep[*Logger](ctx)
		},
	})
}
