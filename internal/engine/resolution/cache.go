// Package resolution caches module resolutions and computes them from the manifest cache.
package resolution

import (
	"slices"
	"strings"

	"go.trai.ch/resolvd/internal/core/domain"
)

type keySet map[domain.ResolutionKey]struct{}

// Cache stores resolutions of one project.
//
// Entries are invalidated, never recomputed, when a path they depend on changes.
// Back-indexes from dependency and failed lookup paths to keys keep invalidation
// proportional to the number of affected entries.
type Cache struct {
	entries      map[domain.ResolutionKey]*domain.CachedResolution
	byDependency map[string]keySet
	byFailed     map[string]keySet
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{
		entries:      make(map[domain.ResolutionKey]*domain.CachedResolution),
		byDependency: make(map[string]keySet),
		byFailed:     make(map[string]keySet),
	}
}

// Get returns the cached resolution for key.
func (c *Cache) Get(key domain.ResolutionKey) (*domain.CachedResolution, bool) {
	res, ok := c.entries[key]
	return res, ok
}

// Set stores res under key, replacing any previous entry.
func (c *Cache) Set(key domain.ResolutionKey, res *domain.CachedResolution) {
	c.remove(key)

	c.entries[key] = res
	for _, dep := range dependencies(res) {
		index(c.byDependency, dep, key)
	}
	for _, lookup := range res.FailedLookups {
		index(c.byFailed, lookup, key)
	}
}

// InvalidateDependencies drops every entry that depends on one of paths.
// It returns the number of dropped entries.
func (c *Cache) InvalidateDependencies(paths []string) int {
	dropped := 0
	for _, p := range paths {
		for key := range c.byDependency[p] {
			if c.remove(key) {
				dropped++
			}
		}
	}
	return dropped
}

// InvalidateFailedLookup drops every entry that probed path, or a directory
// containing path, without success. It returns the number of dropped entries.
func (c *Cache) InvalidateFailedLookup(path string) int {
	var keys []domain.ResolutionKey
	for lookup, set := range c.byFailed {
		if lookup != path && !strings.HasPrefix(path, lookup+"/") {
			continue
		}
		for key := range set {
			keys = append(keys, key)
		}
	}

	dropped := 0
	for _, key := range keys {
		if c.remove(key) {
			dropped++
		}
	}
	return dropped
}

// InvalidateFailed drops every failed resolution.
func (c *Cache) InvalidateFailed() int {
	dropped := 0
	for key, res := range c.entries {
		if res.Failed && c.remove(key) {
			dropped++
		}
	}
	return dropped
}

// InvalidateFile drops every resolution made from file.
func (c *Cache) InvalidateFile(file string) int {
	dropped := 0
	for key := range c.entries {
		if key.File.String() == file && c.remove(key) {
			dropped++
		}
	}
	return dropped
}

// DependsOn reports whether any entry depends on path.
func (c *Cache) DependsOn(path string) bool {
	_, ok := c.byDependency[path]
	return ok
}

// Dependencies returns the sorted union of dependency paths of all entries.
func (c *Cache) Dependencies() []string {
	deps := make([]string, 0, len(c.byDependency))
	for dep := range c.byDependency {
		deps = append(deps, dep)
	}
	slices.Sort(deps)
	return deps
}

// FailedLookups returns the sorted union of failed lookup paths of all entries.
func (c *Cache) FailedLookups() []string {
	lookups := make([]string, 0, len(c.byFailed))
	for lookup := range c.byFailed {
		lookups = append(lookups, lookup)
	}
	slices.Sort(lookups)
	return lookups
}

// Len returns the number of cached resolutions.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	clear(c.entries)
	clear(c.byDependency)
	clear(c.byFailed)
}

func (c *Cache) remove(key domain.ResolutionKey) bool {
	res, ok := c.entries[key]
	if !ok {
		return false
	}
	delete(c.entries, key)
	for _, dep := range dependencies(res) {
		unindex(c.byDependency, dep, key)
	}
	for _, lookup := range res.FailedLookups {
		unindex(c.byFailed, lookup, key)
	}
	return true
}

// dependencies lists the paths whose change invalidates res: the consulted
// manifests and the resolved file itself.
func dependencies(res *domain.CachedResolution) []string {
	if res.Resolved == "" {
		return res.Dependencies
	}
	return append(slices.Clip(res.Dependencies), res.Resolved)
}

func index(idx map[string]keySet, path string, key domain.ResolutionKey) {
	set, ok := idx[path]
	if !ok {
		set = make(keySet)
		idx[path] = set
	}
	set[key] = struct{}{}
}

func unindex(idx map[string]keySet, path string, key domain.ResolutionKey) {
	set := idx[path]
	delete(set, key)
	if len(set) == 0 {
		delete(idx, path)
	}
}
