package manifest

import (
	"go.trai.ch/resolvd/internal/core/domain"
)

// SearchDirectoryAndAncestors walks from dir towards the root and probes every
// Unknown directory until it meets one whose state is already known.
// Each previously Unknown directory is probed at most once, so repeating the
// call without file system changes probes nothing.
func (c *Cache) SearchDirectoryAndAncestors(dir string) {
	c.search(c.canon.ToCanonicalPath(dir), nil)
}

// search expects a canonical dir. Probed directories are added to probed when it is not nil.
func (c *Cache) search(dir string, probed map[string]struct{}) {
	for d := range domain.Ancestors(dir) {
		if c.presence(d).Known() {
			return
		}
		c.probe(d)
		if probed != nil {
			probed[d] = struct{}{}
		}
	}
}

// Ensure resolves the presence state of dir alone, probing it when Unknown.
// It reports whether the probe happened.
func (c *Cache) Ensure(dir string) (domain.Lookup, bool) {
	dir = c.canon.ToCanonicalPath(dir)
	probed := !c.presence(dir).Known()
	if probed {
		c.probe(dir)
	}
	return c.Get(domain.ManifestPathIn(dir)), probed
}

// probe expects a canonical, Unknown dir.
func (c *Cache) probe(dir string) {
	c.probes++

	path := domain.ManifestPathIn(dir)
	if c.fs.PathExists(path) {
		c.AddOrUpdate(path)
		return
	}
	c.markAbsent(dir)
}

// Nearest returns the closest manifest at or above dir.
//
// Unknown directories met on the way are resolved with SearchDirectoryAndAncestors.
// The walk continues through Absent directories, so ancestors skipped by an earlier
// short-circuit are probed once a nearer manifest is deleted.
//
// The returned paths list every manifest location consulted, nearest first;
// the caller watches them as dependencies of the lookup.
func (c *Cache) Nearest(dir string) (*domain.ManifestInfo, []string) {
	return c.NearestFunc(dir, nil)
}

// Visit observes one manifest location consulted by NearestFunc.
// Cached is set when the location was not probed by this walk.
type Visit func(path string, presence domain.Presence, cached bool)

// NearestFunc is Nearest with a visitor called for every consulted location.
func (c *Cache) NearestFunc(dir string, visit Visit) (*domain.ManifestInfo, []string) {
	var consulted []string
	probed := make(map[string]struct{})

	for d := range domain.Ancestors(c.canon.ToCanonicalPath(dir)) {
		if !c.presence(d).Known() {
			c.search(d, probed)
		}
		_, fresh := probed[d]

		path := domain.ManifestPathIn(d)
		consulted = append(consulted, path)
		if visit != nil {
			visit(path, c.presence(d), !fresh)
		}
		if info, ok := c.infos[path]; ok {
			return info, consulted
		}
	}
	return nil, consulted
}
