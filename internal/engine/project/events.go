package project

import (
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
)

// OnManifestEvent records a manifest change. The cache is synced by the
// InvalidateFailedLookups task of every project depending on path.
func (s *Service) OnManifestEvent(path string, op ports.WatchOp) {
	path = s.canon.ToCanonicalPath(path)
	s.log.Debug("manifest " + op.String() + ": " + path)
	s.dirty[path] = struct{}{}

	for _, p := range s.Projects() {
		if !p.dependsOn(path) {
			continue
		}
		p.changed[path] = struct{}{}
		s.scheduleInvalidation(p)
	}
}

// OnConfigEvent records a change of the configuration file of p.
// The configuration is reloaded by the next rebuild.
func (s *Service) OnConfigEvent(p *Project, op ports.WatchOp) {
	if op.Gone() && !s.fs.PathExists(p.config.Path) {
		s.log.Warn("project configuration " + p.config.Path + " was removed, keeping its last known settings")
		return
	}
	p.configDirty = true
	s.scheduleRebuild(p)
}

// OnSourceEvent handles a change of any other path watched by p: root files,
// their directories and the locations of failed lookups.
func (s *Service) OnSourceEvent(p *Project, path string, op ports.WatchOp) {
	path = s.canon.ToCanonicalPath(path)

	invalidated := p.resolutions.InvalidateFailedLookup(path)
	if op.Gone() {
		invalidated += p.resolutions.InvalidateDependencies([]string{path})
	}
	if invalidated > 0 {
		s.events.Emit(domain.Event{
			Kind:  domain.EventResolutionInvalidated,
			Path:  path,
			Key:   p.name,
			Count: invalidated,
		})
	}

	changed := invalidated > 0
	if f, ok := p.files[path]; ok {
		if op.Gone() {
			p.filesDirty = true
		} else {
			f.stale = true
		}
		changed = true
	} else if op == ports.OpCreate && inScope(p.config, path) {
		p.filesDirty = true
		changed = true
	}

	if changed {
		s.scheduleRebuild(p)
	}
}
