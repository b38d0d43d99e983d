// Package manifest caches package.json contents together with a per-directory
// presence index, and walks directory ancestors through it.
//
// A directory is Present when a manifest is cached for it, Absent when it was
// probed and had none, and Unknown otherwise. The cache has no notion of watches
// or scheduling: callers tell it what changed.
package manifest

import (
	"errors"
	"io/fs"
	"maps"
	"slices"

	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/zerr"
)

// Cache is the manifest store. It is not safe for concurrent use; the owning
// service serializes every call on its event loop.
type Cache struct {
	fs     ports.FileSystem
	parser ports.ManifestParser
	canon  ports.PathCanonicalizer
	events ports.EventSink

	infos  map[string]*domain.ManifestInfo
	absent map[string]struct{}
	probes int
}

// NewCache creates an empty Cache. A nil events sink discards events.
func NewCache(
	fs ports.FileSystem,
	parser ports.ManifestParser,
	canon ports.PathCanonicalizer,
	events ports.EventSink,
) *Cache {
	if events == nil {
		events = discard{}
	}
	return &Cache{
		fs:     fs,
		parser: parser,
		canon:  canon,
		events: events,
		infos:  make(map[string]*domain.ManifestInfo),
		absent: make(map[string]struct{}),
	}
}

// AddOrUpdate reads and parses the manifest at path, replaces any cached info and
// marks its directory Present.
//
// The file must exist and path must name a manifest. Calling AddOrUpdate otherwise panics.
// A file that exists but cannot be read or parsed is cached as an empty info with
// Parseable unset, so the directory still counts as Present.
func (c *Cache) AddOrUpdate(path string) *domain.ManifestInfo {
	path = c.canonicalManifestPath("AddOrUpdate", path)

	data, err := c.fs.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		panic(zerr.With(zerr.Wrap(domain.ErrManifestMissing, "AddOrUpdate called for a missing file"), "path", path))
	}

	var info *domain.ManifestInfo
	if err != nil {
		err = zerr.With(zerr.Wrap(domain.ErrManifestReadFailed, err.Error()), "path", path)
		info = domain.EmptyManifest(path)
	} else {
		info, err = c.parser.Parse(path, data)
		if info == nil {
			info = domain.EmptyManifest(path)
		}
	}
	info.Path = path
	info.Dir = domain.DirOf(path)

	c.infos[path] = info
	delete(c.absent, info.Dir)

	if err != nil {
		c.events.Emit(domain.Event{Kind: domain.EventManifestMalformed, Path: path, Err: err})
	} else {
		c.events.Emit(domain.Event{Kind: domain.EventManifestFound, Path: path})
	}
	return info
}

// Delete drops any info cached for path and marks its directory Absent,
// whether or not an entry existed. The directory is not re-probed.
// path must name a manifest.
func (c *Cache) Delete(path string) {
	path = c.canonicalManifestPath("Delete", path)

	delete(c.infos, path)
	c.absent[domain.DirOf(path)] = struct{}{}

	c.events.Emit(domain.Event{Kind: domain.EventManifestDeleted, Path: path})
}

// Invalidate forgets path: its info is dropped and its directory goes back to
// Unknown, so the next search probes it again. path must name a manifest.
func (c *Cache) Invalidate(path string) {
	path = c.canonicalManifestPath("Invalidate", path)

	dir := domain.DirOf(path)
	_, cached := c.infos[path]
	_, absent := c.absent[dir]
	if !cached && !absent {
		return
	}

	delete(c.infos, path)
	delete(c.absent, dir)
	c.events.Emit(domain.Event{Kind: domain.EventManifestInvalidated, Path: path})
}

// canonicalManifestPath panics when path does not name a manifest: presence is
// tracked per directory, and any other file would corrupt it.
func (c *Cache) canonicalManifestPath(op, path string) string {
	path = c.canon.ToCanonicalPath(path)
	if !domain.IsManifestPath(path) {
		panic(zerr.With(zerr.Wrap(domain.ErrNotManifestPath, op+" called for a non-manifest path"), "path", path))
	}
	return path
}

// Get returns what the cache knows about the manifest at path. It never touches the file system.
func (c *Cache) Get(path string) domain.Lookup {
	path = c.canon.ToCanonicalPath(path)

	if info, ok := c.infos[path]; ok {
		return domain.Lookup{Info: info, Presence: domain.PresencePresent}
	}
	if _, ok := c.absent[domain.DirOf(path)]; ok && domain.IsManifestPath(path) {
		return domain.Lookup{Presence: domain.PresenceAbsent}
	}
	return domain.Lookup{Presence: domain.PresenceUnknown}
}

// GetInDirectory returns the info cached for dir/package.json.
func (c *Cache) GetInDirectory(dir string) (*domain.ManifestInfo, bool) {
	info, ok := c.infos[domain.ManifestPathIn(c.canon.ToCanonicalPath(dir))]
	return info, ok
}

// DirectoryHasPackageJSON reports the presence state of dir without touching the file system.
func (c *Cache) DirectoryHasPackageJSON(dir string) domain.Presence {
	return c.presence(c.canon.ToCanonicalPath(dir))
}

// presence expects a canonical dir.
func (c *Cache) presence(dir string) domain.Presence {
	if _, ok := c.infos[domain.ManifestPathIn(dir)]; ok {
		return domain.PresencePresent
	}
	if _, ok := c.absent[dir]; ok {
		return domain.PresenceAbsent
	}
	return domain.PresenceUnknown
}

// markAbsent expects a canonical dir.
func (c *Cache) markAbsent(dir string) {
	c.absent[dir] = struct{}{}
	c.events.Emit(domain.Event{Kind: domain.EventManifestNotFound, Path: domain.ManifestPathIn(dir)})
}

// ForEach calls fn for every cached info in path order until fn returns false.
func (c *Cache) ForEach(fn func(info *domain.ManifestInfo) bool) {
	for _, path := range slices.Sorted(maps.Keys(c.infos)) {
		if !fn(c.infos[path]) {
			return
		}
	}
}

// Len returns the number of cached infos.
func (c *Cache) Len() int {
	return len(c.infos)
}

// Probes returns how many directories have been probed on the file system.
func (c *Cache) Probes() int {
	return c.probes
}

// Clear forgets every info and presence state.
func (c *Cache) Clear() {
	clear(c.infos)
	clear(c.absent)
}

type discard struct{}

func (discard) Emit(domain.Event) {}
