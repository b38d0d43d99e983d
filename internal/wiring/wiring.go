// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/resolvd/internal/adapters/config"
	_ "go.trai.ch/resolvd/internal/adapters/fs"
	_ "go.trai.ch/resolvd/internal/adapters/imports"
	_ "go.trai.ch/resolvd/internal/adapters/logger"
	_ "go.trai.ch/resolvd/internal/adapters/manifest"
	_ "go.trai.ch/resolvd/internal/adapters/telemetry"
	_ "go.trai.ch/resolvd/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/resolvd/internal/app"
	_ "go.trai.ch/resolvd/internal/engine/scheduler"
)
