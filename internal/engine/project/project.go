// Package project keeps configured and inferred projects resolved as files change.
package project

import (
	"maps"
	"slices"

	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/engine/resolution"
	"go.trai.ch/resolvd/internal/engine/watch"
)

// sourceFile is a root file of a project and the imports found in it.
type sourceFile struct {
	imports []domain.ImportRef
	// stale is set when the file changed since it was last scanned.
	stale bool
}

// Project is a set of root files resolved under one set of compiler options.
type Project struct {
	name   string
	config *domain.ProjectConfig

	files       map[string]*sourceFile
	open        map[string]struct{}
	diagnostics map[string][]domain.Diagnostic

	resolutions *resolution.Cache
	binding     *watch.Binding

	// changed holds manifest paths that changed since the last invalidation run.
	changed map[string]struct{}
	// filesDirty is set when the root file set must be discovered again.
	filesDirty bool
	// configDirty is set when the configuration file must be loaded again.
	configDirty bool
	version    int
}

func newProject(name string, config *domain.ProjectConfig) *Project {
	return &Project{
		name:        name,
		config:      config,
		files:       make(map[string]*sourceFile),
		open:        make(map[string]struct{}),
		diagnostics: make(map[string][]domain.Diagnostic),
		resolutions: resolution.NewCache(),
		changed:     make(map[string]struct{}),
		filesDirty:  true,
	}
}

// Name returns the configuration path, or a generated name for inferred projects.
func (p *Project) Name() string {
	return p.name
}

// Config returns the loaded project configuration.
func (p *Project) Config() *domain.ProjectConfig {
	return p.config
}

// Inferred reports whether the project has no configuration file.
func (p *Project) Inferred() bool {
	return p.config.Inferred()
}

// Version counts completed rebuilds.
func (p *Project) Version() int {
	return p.version
}

// RootFiles returns the sorted root file paths.
func (p *Project) RootFiles() []string {
	return slices.Sorted(maps.Keys(p.files))
}

// OpenFiles returns the sorted paths of the project's open files.
func (p *Project) OpenFiles() []string {
	return slices.Sorted(maps.Keys(p.open))
}

// Watched returns the paths the project currently watches.
func (p *Project) Watched() []watch.Target {
	return p.binding.Watched()
}

// Resolutions returns the project's resolution cache.
func (p *Project) Resolutions() *resolution.Cache {
	return p.resolutions
}

// Diagnostics returns the diagnostics of file from the last rebuild.
func (p *Project) Diagnostics(file string) []domain.Diagnostic {
	return p.diagnostics[file]
}

func (p *Project) contains(file string) bool {
	_, ok := p.files[file]
	return ok
}

// dependsOn reports whether a resolution or watch of the project involves path.
func (p *Project) dependsOn(path string) bool {
	if p.resolutions.DependsOn(path) {
		return true
	}
	return slices.Contains(p.binding.Watched(), watch.FileTarget(path))
}
