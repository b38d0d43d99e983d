package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/resolvd/internal/adapters/fs"
	"go.trai.ch/resolvd/internal/core/ports"
)

const (
	// SettingsNodeID is the unique identifier for the settings loader Graft node.
	SettingsNodeID graft.ID = "adapter.config.settings"
	// ProjectNodeID is the unique identifier for the project loader Graft node.
	ProjectNodeID graft.ID = "adapter.config.project"
)

func init() {
	graft.Register(graft.Node[ports.SettingsLoader]{
		ID:        SettingsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HostNodeID},
		Run: func(ctx context.Context) (ports.SettingsLoader, error) {
			host, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewSettingsLoader(host), nil
		},
	})

	graft.Register(graft.Node[ports.ProjectLoader]{
		ID:        ProjectNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HostNodeID},
		Run: func(ctx context.Context) (ports.ProjectLoader, error) {
			host, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewProjectLoader(host), nil
		},
	})
}
