package project

import (
	"context"
	"maps"
	"slices"

	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/resolvd/internal/engine/resolution"
	"go.trai.ch/resolvd/internal/engine/watch"
	"go.trai.ch/zerr"
)

func (s *Service) scheduleInvalidation(p *Project) {
	s.scheduler.Schedule(domain.NewTaskKey(p.name, domain.TaskInvalidateFailedLookups), func(ctx context.Context) error {
		return s.invalidateFailedLookups(ctx, p)
	})
}

func (s *Service) scheduleRebuild(p *Project) {
	s.scheduler.Schedule(domain.NewTaskKey(p.name, domain.TaskRebuildProject), func(ctx context.Context) error {
		if err := s.rebuild(ctx, p); err != nil {
			return err
		}
		if len(p.open) > 0 {
			s.scheduleRefresh(p)
		}
		return nil
	})
}

func (s *Service) scheduleRefresh(p *Project) {
	s.scheduler.Schedule(domain.NewTaskKey(p.name, domain.TaskRefreshOpenFileDiagnostics), func(context.Context) error {
		s.refreshDiagnostics(p)
		return nil
	})
}

// invalidateFailedLookups syncs changed manifests into the cache and drops the
// resolutions of p that depended on them.
func (s *Service) invalidateFailedLookups(_ context.Context, p *Project) error {
	s.syncManifests()

	changed := slices.Sorted(maps.Keys(p.changed))
	clear(p.changed)

	invalidated := p.resolutions.InvalidateDependencies(changed)
	for _, path := range changed {
		invalidated += p.resolutions.InvalidateFailedLookup(path)
	}
	if invalidated == 0 {
		return nil
	}

	s.events.Emit(domain.Event{Kind: domain.EventResolutionInvalidated, Key: p.name, Count: invalidated})
	s.scheduleRebuild(p)
	return nil
}

// syncManifests replays pending manifest changes into the cache.
// A manifest that is gone is deleted, which marks its directory Absent without a new probe.
func (s *Service) syncManifests() {
	for _, path := range slices.Sorted(maps.Keys(s.dirty)) {
		if s.fs.PathExists(path) {
			s.manifests.AddOrUpdate(path)
		} else {
			s.manifests.Delete(path)
		}
	}
	clear(s.dirty)
}

// rebuild re-resolves the imports of p that have no cached resolution,
// recomputes diagnostics and resyncs the watches of p.
func (s *Service) rebuild(ctx context.Context, p *Project) error {
	ctx, span := s.tracer.Start(ctx, "project.rebuild", ports.WithAttribute("project", p.name))
	defer span.End()

	if p.configDirty {
		p.configDirty = false
		if err := s.reloadConfig(p); err != nil {
			span.RecordError(err)
			s.log.Error(err)
		}
	}
	if p.filesDirty {
		s.syncRootFiles(p)
	}

	opts := p.config.Options
	opts.TraceResolution = opts.TraceResolution || s.trace
	signature := opts.Signature()
	resolved := 0

	for _, file := range p.RootFiles() {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return err
		}

		src := p.files[file]
		if src.stale {
			if err := s.scan(ctx, file, src); err != nil {
				s.log.Warn(err.Error())
			}
		}

		var diags []domain.Diagnostic
		for _, ref := range src.imports {
			key := domain.NewResolutionKey(ref.Specifier, file, signature)
			res, ok := p.resolutions.Get(key)
			if !ok {
				res = s.resolver.Resolve(ref.Specifier, file, opts)
				p.resolutions.Set(key, res)
				resolved++
				for _, line := range res.Trace {
					s.log.Info(line)
				}
			}
			if diag, ok := resolution.Diagnose(file, ref, res, opts); ok {
				diags = append(diags, diag)
			}
		}
		p.diagnostics[file] = diags
	}

	s.syncWatches(p)
	p.version++

	span.SetAttribute("resolved", resolved)
	span.SetAttribute("version", p.version)
	s.events.Emit(domain.Event{Kind: domain.EventProjectRebuilt, Key: p.name, Count: resolved})
	return nil
}

func (s *Service) reloadConfig(p *Project) error {
	cfg, err := s.loadConfig(p.config.Path)
	if err != nil {
		return err
	}
	if cfg.Options.Signature() != p.config.Options.Signature() {
		p.resolutions.Clear()
	}
	p.config = cfg
	p.filesDirty = true
	return nil
}

func (s *Service) scan(ctx context.Context, file string, src *sourceFile) error {
	src.stale = false
	src.imports = nil

	data, err := s.fs.ReadFile(file)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrFileReadFailed, err.Error()), "path", file)
	}
	imports, err := s.scanner.Scan(ctx, file, data)
	if err != nil {
		return err
	}
	src.imports = imports
	return nil
}

func (s *Service) syncRootFiles(p *Project) {
	p.filesDirty = false

	next := make(map[string]*sourceFile)
	for _, file := range discoverRootFiles(s.fs, s.canon, p.config, s.ignore) {
		if src, ok := p.files[file]; ok {
			next[file] = src
			continue
		}
		next[file] = &sourceFile{stale: true}
	}
	for file := range p.files {
		if _, ok := next[file]; !ok {
			p.resolutions.InvalidateFile(file)
			delete(p.diagnostics, file)
		}
	}
	p.files = next
}

// syncWatches watches the configuration file, every manifest and file the
// resolutions of p depend on, the directories of its root files and the
// nearest existing directory of every failed lookup.
func (s *Service) syncWatches(p *Project) {
	var targets []watch.Target
	dirs := make(map[string]struct{})

	if !p.Inferred() {
		targets = append(targets, watch.FileTarget(p.config.Path))
		dirs[p.config.Dir] = struct{}{}
	}
	for _, dep := range p.resolutions.Dependencies() {
		targets = append(targets, watch.FileTarget(dep))
	}
	for file := range p.files {
		dirs[domain.DirOf(file)] = struct{}{}
	}
	for _, lookup := range p.resolutions.FailedLookups() {
		dirs[s.existingDir(domain.DirOf(lookup))] = struct{}{}
	}
	for dir := range dirs {
		targets = append(targets, watch.DirectoryTarget(dir))
	}

	s.forgetManifests(p.binding.Sync(targets))
}

func (s *Service) existingDir(dir string) string {
	for d := range domain.Ancestors(dir) {
		if s.fs.DirectoryExists(d) {
			return d
		}
	}
	return "/"
}

func (s *Service) refreshDiagnostics(p *Project) {
	for _, file := range p.OpenFiles() {
		diags := p.diagnostics[file]
		s.events.Emit(domain.Event{
			Kind:  domain.EventDiagnosticsReported,
			Path:  file,
			Key:   p.name,
			Count: len(diags),
		})
		if s.onDiagnostics != nil {
			s.onDiagnostics(file, diags)
		}
	}
}
