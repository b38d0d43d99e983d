package project

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/resolvd/internal/engine/manifest"
	"go.trai.ch/resolvd/internal/engine/resolution"
	"go.trai.ch/resolvd/internal/engine/scheduler"
	"go.trai.ch/resolvd/internal/engine/watch"
	"go.trai.ch/zerr"
)

// DiagnosticsFunc receives the diagnostics of an open file whenever they are refreshed.
type DiagnosticsFunc func(file string, diags []domain.Diagnostic)

// Options holds the collaborators of a Service.
type Options struct {
	FS            ports.FileSystem
	Canonicalizer ports.PathCanonicalizer
	Parser        ports.ManifestParser
	Loader        ports.ProjectLoader
	Scanner       ports.ImportScanner
	Watches       ports.WatchHost
	Scheduler     *scheduler.Scheduler
	Tracer        ports.Tracer
	Logger        ports.Logger
	Events        ports.EventSink

	// Ignore lists directory names skipped during root file discovery.
	Ignore []string
	// MaxTickIterations bounds RunUntilIdle.
	MaxTickIterations int
	// TraceResolution logs resolution traces for every project.
	TraceResolution bool
	// OnDiagnostics is called for every refreshed open file. It may be nil.
	OnDiagnostics DiagnosticsFunc
}

// Service hosts projects and keeps them resolved.
//
// It owns a single manifest cache shared by its projects. Watch callbacks only
// record what changed and schedule tasks; the tasks run from RunDue. A Service
// is not safe for concurrent use: watch dispatch and task runs must happen on
// the same event loop.
type Service struct {
	fs        ports.FileSystem
	canon     ports.PathCanonicalizer
	loader    ports.ProjectLoader
	scanner   ports.ImportScanner
	watches   ports.WatchHost
	scheduler *scheduler.Scheduler
	tracer    ports.Tracer
	log       ports.Logger
	events    ports.EventSink

	manifests *manifest.Cache
	resolver  *resolution.Resolver

	ignore        []string
	maxTicks      int
	trace         bool
	onDiagnostics DiagnosticsFunc

	projects map[string]*Project
	// open maps every open file to the project that contains it.
	open map[string]*Project
	// dirty holds manifest paths whose changes are not yet synced into the cache.
	dirty    map[string]struct{}
	inferred int
}

// NewService creates a new Service.
func NewService(opts Options) *Service {
	maxTicks := opts.MaxTickIterations
	if maxTicks <= 0 {
		maxTicks = domain.DefaultMaxTickIterations
	}

	manifests := manifest.NewCache(opts.FS, opts.Parser, opts.Canonicalizer, opts.Events)
	return &Service{
		fs:            opts.FS,
		canon:         opts.Canonicalizer,
		loader:        opts.Loader,
		scanner:       opts.Scanner,
		watches:       opts.Watches,
		scheduler:     opts.Scheduler,
		tracer:        opts.Tracer,
		log:           opts.Logger,
		events:        opts.Events,
		manifests:     manifests,
		resolver:      resolution.NewResolver(opts.FS, manifests),
		ignore:        opts.Ignore,
		maxTicks:      maxTicks,
		trace:         opts.TraceResolution,
		onDiagnostics: opts.OnDiagnostics,
		projects:      make(map[string]*Project),
		open:          make(map[string]*Project),
		dirty:         make(map[string]struct{}),
	}
}

// Manifests returns the manifest cache shared by all projects.
func (s *Service) Manifests() *manifest.Cache {
	return s.manifests
}

// OpenFile opens file in the project that contains it and returns its diagnostics.
// Files outside every configured project get an inferred project.
func (s *Service) OpenFile(ctx context.Context, file string) ([]domain.Diagnostic, error) {
	file = s.canon.ToCanonicalPath(file)
	if p, ok := s.open[file]; ok {
		return p.diagnostics[file], nil
	}
	if !s.fs.PathExists(file) {
		return nil, zerr.With(zerr.Wrap(domain.ErrFileNotFound, "cannot open file"), "path", file)
	}

	p, err := s.projectFor(file)
	if err != nil {
		return nil, err
	}
	p.open[file] = struct{}{}
	s.open[file] = p

	if err := s.rebuild(ctx, p); err != nil {
		return nil, err
	}
	s.refreshDiagnostics(p)
	return p.diagnostics[file], nil
}

// CloseFile closes file. A project without open files is closed too.
func (s *Service) CloseFile(file string) {
	file = s.canon.ToCanonicalPath(file)
	p, ok := s.open[file]
	if !ok {
		return
	}
	delete(s.open, file)
	delete(p.open, file)

	if p.Inferred() {
		delete(p.files, file)
		p.resolutions.InvalidateFile(file)
		delete(p.diagnostics, file)
	}
	if len(p.open) == 0 {
		s.closeProject(p)
	}
}

// Diagnostics returns the diagnostics of an open file.
func (s *Service) Diagnostics(file string) ([]domain.Diagnostic, error) {
	file = s.canon.ToCanonicalPath(file)
	p, ok := s.open[file]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrProjectNotFound, "file is not open"), "path", file)
	}
	return p.diagnostics[file], nil
}

// Resolution returns the cached resolution of specifier imported from an open file.
func (s *Service) Resolution(file, specifier string) (*domain.CachedResolution, bool) {
	file = s.canon.ToCanonicalPath(file)
	p, ok := s.open[file]
	if !ok {
		return nil, false
	}
	return p.resolutions.Get(domain.NewResolutionKey(specifier, file, p.config.Options.Signature()))
}

// Project returns the project an open file belongs to.
func (s *Service) Project(file string) (*Project, bool) {
	p, ok := s.open[s.canon.ToCanonicalPath(file)]
	return p, ok
}

// Projects returns the open projects sorted by name.
func (s *Service) Projects() []*Project {
	names := slices.Sorted(maps.Keys(s.projects))
	projects := make([]*Project, len(names))
	for i, name := range names {
		projects[i] = s.projects[name]
	}
	return projects
}

// RunDue runs the tasks that are due.
func (s *Service) RunDue(ctx context.Context) (int, error) {
	return s.scheduler.RunDue(ctx)
}

// RunUntilIdle runs ticks until no task is pending.
func (s *Service) RunUntilIdle(ctx context.Context) (int, error) {
	return s.scheduler.RunUntilIdle(ctx, s.maxTicks)
}

// HasPending reports whether tasks are waiting for the next tick.
func (s *Service) HasPending() bool {
	return s.scheduler.HasPending()
}

// Close closes every project and releases their watches.
func (s *Service) Close() {
	for _, p := range s.Projects() {
		s.closeProject(p)
	}
	clear(s.open)
	clear(s.dirty)
}

func (s *Service) projectFor(file string) (*Project, error) {
	if configPath := s.loader.Find(domain.DirOf(file)); configPath != "" {
		configPath = s.canon.ToCanonicalPath(configPath)
		p, ok := s.projects[configPath]
		if !ok {
			cfg, err := s.loadConfig(configPath)
			if err != nil {
				return nil, err
			}
			p = s.addProject(configPath, cfg)
		}
		if inScope(p.config, file) {
			return p, nil
		}
		if len(p.open) == 0 {
			s.closeProject(p)
		}
	}

	s.inferred++
	cfg := &domain.ProjectConfig{
		Dir:     domain.DirOf(file),
		Options: domain.DefaultCompilerOptions(),
		Files:   []string{file},
	}
	return s.addProject(fmt.Sprintf("/dev/null/inferredProject%d*", s.inferred), cfg), nil
}

func (s *Service) loadConfig(configPath string) (*domain.ProjectConfig, error) {
	cfg, err := s.loader.Load(configPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to load project"), "project", configPath)
	}
	cfg.Path = s.canon.ToCanonicalPath(cfg.Path)
	cfg.Dir = s.canon.ToCanonicalPath(cfg.Dir)
	for i, f := range cfg.Files {
		cfg.Files[i] = s.canon.ToCanonicalPath(f)
	}
	return cfg, nil
}

func (s *Service) addProject(name string, cfg *domain.ProjectConfig) *Project {
	p := newProject(name, cfg)
	p.binding = watch.NewBinding(s.watches, name, func(event ports.WatchEvent) {
		s.route(p, event)
	}, s.log, s.events)
	s.projects[name] = p
	return p
}

func (s *Service) closeProject(p *Project) {
	s.scheduler.Cancel(p.name)
	delete(s.projects, p.name)
	for file := range p.open {
		delete(s.open, file)
	}
	s.forgetManifests(p.binding.Close())
}

// forgetManifests drops cached manifests whose last watch was just released.
// Nothing reports changes to them anymore, so the next search must read them again.
func (s *Service) forgetManifests(released []watch.Target) {
	for _, t := range released {
		if t.Directory || !domain.IsManifestPath(t.Path) || s.watchedByAny(t) {
			continue
		}
		delete(s.dirty, t.Path)
		s.manifests.Invalidate(t.Path)
	}
}

func (s *Service) watchedByAny(t watch.Target) bool {
	for _, p := range s.projects {
		if p.binding.Has(t) {
			return true
		}
	}
	return false
}

// route sends a watch event of p to the handler for its kind of path.
func (s *Service) route(p *Project, event ports.WatchEvent) {
	path := s.canon.ToCanonicalPath(event.Path)
	switch {
	case !p.Inferred() && path == p.config.Path:
		s.OnConfigEvent(p, event.Operation)
	case domain.IsManifestPath(path):
		s.OnManifestEvent(path, event.Operation)
	default:
		s.OnSourceEvent(p, path, event.Operation)
	}
}
