package fs

import (
	"path"
	"path/filepath"
	"sync"

	"go.trai.ch/resolvd/internal/core/ports"
	"golang.org/x/text/cases"
)

var _ ports.PathCanonicalizer = (*Canonicalizer)(nil)

// Canonicalizer turns host paths into cache keys.
// On case-insensitive hosts differently-cased spellings map to the same key.
type Canonicalizer struct {
	caseSensitive bool

	mu    sync.Mutex
	caser cases.Caser
}

// NewCanonicalizer creates a Canonicalizer for a host with the given case sensitivity.
func NewCanonicalizer(caseSensitive bool) *Canonicalizer {
	return &Canonicalizer{
		caseSensitive: caseSensitive,
		caser:         cases.Fold(),
	}
}

// ToCanonicalPath cleans p, converts it to slash form and folds its case when needed.
func (c *Canonicalizer) ToCanonicalPath(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	if c.caseSensitive {
		return p
	}

	// cases.Caser keeps internal state and is not safe for concurrent use.
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.caser.String(p)
}
