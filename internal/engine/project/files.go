package project

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/resolvd/internal/engine/resolution"
)

// discoverRootFiles lists the root files of a configured project:
// the explicit files plus every source file under Dir matched by the include
// patterns and not matched by the exclude patterns.
func discoverRootFiles(fs ports.FileSystem, canon ports.PathCanonicalizer, cfg *domain.ProjectConfig, ignore []string) []string {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = canon.ToCanonicalPath(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, f := range cfg.Files {
		if fs.PathExists(f) {
			add(f)
		}
	}
	if cfg.Inferred() || len(cfg.Include) == 0 {
		return files
	}

	for f := range fs.WalkFiles(cfg.Dir, ignore) {
		if !resolution.IsSourceFile(f) {
			continue
		}
		rel, ok := relativeTo(cfg.Dir, f)
		if !ok {
			continue
		}
		if matchesAny(cfg.Include, rel) && !matchesAny(cfg.Exclude, rel) {
			add(f)
		}
	}
	return files
}

// inScope reports whether file would be a root file of cfg, ignoring whether it exists.
func inScope(cfg *domain.ProjectConfig, file string) bool {
	for _, f := range cfg.Files {
		if f == file {
			return true
		}
	}
	if cfg.Inferred() || !resolution.IsSourceFile(file) {
		return false
	}
	rel, ok := relativeTo(cfg.Dir, file)
	return ok && matchesAny(cfg.Include, rel) && !matchesAny(cfg.Exclude, rel)
}

func relativeTo(dir, file string) (string, bool) {
	if dir == "/" {
		return strings.TrimPrefix(file, "/"), true
	}
	rel, ok := strings.CutPrefix(file, dir+"/")
	return rel, ok
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(normalizePattern(pattern), rel); err == nil && ok {
			return true
		}
	}
	return false
}

// normalizePattern turns a directory pattern such as "src" into "src/**/*".
func normalizePattern(pattern string) string {
	pattern = strings.TrimPrefix(path.Clean(pattern), "./")
	last := path.Base(pattern)
	if strings.ContainsAny(last, "*?") || path.Ext(last) != "" {
		return pattern
	}
	return pattern + "/**/*"
}
