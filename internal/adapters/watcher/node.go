package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/resolvd/internal/adapters/logger"
	"go.trai.ch/resolvd/internal/core/ports"
)

// WatcherNodeID is the unique identifier for the file watcher factory Graft node.
const WatcherNodeID graft.ID = "adapter.watcher"

func init() {
	graft.Register(graft.Node[ports.FSWatcherFactory]{
		ID:        WatcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.PortNodeID},
		Run: func(ctx context.Context) (ports.FSWatcherFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return func() (ports.FSWatcher, error) {
				return NewWatcher(log)
			}, nil
		},
	})
}
