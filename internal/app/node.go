package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/resolvd/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/resolvd/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/resolvd/internal/adapters/imports"   //nolint:depguard // Wired in app layer
	"go.trai.ch/resolvd/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/resolvd/internal/adapters/manifest"  //nolint:depguard // Wired in app layer
	"go.trai.ch/resolvd/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/resolvd/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/resolvd/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds what the CLI entry point needs.
type Components struct {
	App    *App
	Logger ports.Logger
	// Shutdown flushes and stops the tracer provider.
	Shutdown func(context.Context) error
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsNodeID,
			config.ProjectNodeID,
			fs.HostNodeID,
			manifest.NodeID,
			imports.NodeID,
			scheduler.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
			watcher.WatcherNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.PortNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settingsLoader, err := graft.Dep[ports.SettingsLoader](ctx)
	if err != nil {
		return nil, err
	}

	projectLoader, err := graft.Dep[ports.ProjectLoader](ctx)
	if err != nil {
		return nil, err
	}

	host, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	parser, err := graft.Dep[ports.ManifestParser](ctx)
	if err != nil {
		return nil, err
	}

	scanner, err := graft.Dep[ports.ImportScanner](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[*logger.Logger](ctx)
	if err != nil {
		return nil, err
	}

	newWatcher, err := graft.Dep[ports.FSWatcherFactory](ctx)
	if err != nil {
		return nil, err
	}

	a := New(settingsLoader, projectLoader, host, parser, scanner, sched, tracer, log, log, newWatcher)
	return a.WithLogSettings(log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:      a,
		Logger:   log,
		Shutdown: telemetry.Setup(telemetry.NewBridge(log)),
	}, nil
}
