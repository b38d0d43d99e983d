package resolution_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/engine/resolution"
)

func key(name, file string) domain.ResolutionKey {
	return domain.NewResolutionKey(name, file, domain.DefaultCompilerOptions().Signature())
}

func TestCache_SetGet(t *testing.T) {
	c := resolution.NewCache()
	k := key("./fileB.mjs", "/p/src/fileA.ts")

	_, ok := c.Get(k)
	assert.False(t, ok)

	res := &domain.CachedResolution{Resolved: "/p/src/fileB.mts"}
	c.Set(k, res)

	got, ok := c.Get(k)
	require.True(t, ok)
	assert.Same(t, res, got)
	assert.Equal(t, 1, c.Len())
}

func TestCache_InvalidateDependencies(t *testing.T) {
	c := resolution.NewCache()
	a := key("./a.js", "/p/src/main.ts")
	b := key("./b.js", "/p/src/main.ts")
	other := key("lib", "/q/main.ts")

	c.Set(a, &domain.CachedResolution{Dependencies: []string{"/p/src/package.json", "/p/package.json"}})
	c.Set(b, &domain.CachedResolution{Dependencies: []string{"/p/package.json"}})
	c.Set(other, &domain.CachedResolution{Dependencies: []string{"/q/package.json"}})

	assert.Equal(t, 2, c.InvalidateDependencies([]string{"/p/package.json"}))
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(other)
	assert.True(t, ok)

	assert.Zero(t, c.InvalidateDependencies([]string{"/p/package.json"}), "the back index is cleaned up")
	assert.Equal(t, []string{"/q/package.json"}, c.Dependencies())
}

func TestCache_SetReplacesIndex(t *testing.T) {
	c := resolution.NewCache()
	k := key("./a.js", "/p/main.ts")

	c.Set(k, &domain.CachedResolution{Dependencies: []string{"/old/package.json"}})
	c.Set(k, &domain.CachedResolution{Dependencies: []string{"/new/package.json"}})

	assert.Zero(t, c.InvalidateDependencies([]string{"/old/package.json"}))
	assert.Equal(t, 1, c.InvalidateDependencies([]string{"/new/package.json"}))
}

func TestCache_InvalidateFailedLookup(t *testing.T) {
	c := resolution.NewCache()
	missingFile := key("./gone.js", "/p/main.ts")
	missingDir := key("lib", "/p/main.ts")

	c.Set(missingFile, &domain.CachedResolution{Failed: true, FailedLookups: []string{"/p/gone.ts", "/p/gone.d.ts"}})
	c.Set(missingDir, &domain.CachedResolution{Failed: true, FailedLookups: []string{"/p/node_modules"}})

	assert.Equal(t, 1, c.InvalidateFailedLookup("/p/gone.d.ts"))
	assert.Equal(t, 1, c.InvalidateFailedLookup("/p/node_modules/lib/package.json"), "files under a missing directory count")
	assert.Zero(t, c.Len())
}

func TestCache_InvalidateFailed(t *testing.T) {
	c := resolution.NewCache()
	c.Set(key("./ok.js", "/p/main.ts"), &domain.CachedResolution{Resolved: "/p/ok.ts"})
	c.Set(key("./bad.js", "/p/main.ts"), &domain.CachedResolution{Failed: true})

	assert.Equal(t, 1, c.InvalidateFailed())
	assert.Equal(t, 1, c.Len())
}

func TestCache_InvalidateFile(t *testing.T) {
	c := resolution.NewCache()
	c.Set(key("./a.js", "/p/main.ts"), &domain.CachedResolution{})
	c.Set(key("./b.js", "/p/main.ts"), &domain.CachedResolution{})
	c.Set(key("./a.js", "/p/other.ts"), &domain.CachedResolution{})

	assert.Equal(t, 2, c.InvalidateFile("/p/main.ts"))
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Dependencies())
}

func TestCache_ResolvedFileIsDependency(t *testing.T) {
	c := resolution.NewCache()
	k := key("./fileB.mjs", "/p/src/fileA.ts")
	c.Set(k, &domain.CachedResolution{
		Resolved:     "/p/src/fileB.mts",
		Dependencies: []string{"/p/package.json"},
	})

	assert.True(t, c.DependsOn("/p/src/fileB.mts"))
	assert.Equal(t, []string{"/p/package.json", "/p/src/fileB.mts"}, c.Dependencies())

	assert.Equal(t, 1, c.InvalidateDependencies([]string{"/p/src/fileB.mts"}))
	assert.False(t, c.DependsOn("/p/package.json"))
}
