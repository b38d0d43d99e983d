package domain

import (
	"iter"
	"path"
)

const (
	// ManifestFileName is the name of the package manifest file.
	ManifestFileName = "package.json"

	// ProjectConfigFileName is the name of the project configuration file.
	ProjectConfigFileName = "tsconfig.json"

	// SettingsFileName is the name of the service settings file.
	SettingsFileName = "resolvd.yaml"

	// NodeModulesDirName is the name of the installed packages directory.
	NodeModulesDirName = "node_modules"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DirOf returns the directory containing p.
// Paths are slash-separated; the root directory is its own parent.
func DirOf(p string) string {
	return path.Dir(p)
}

// ManifestPathIn returns the manifest path directly inside dir.
func ManifestPathIn(dir string) string {
	return path.Join(dir, ManifestFileName)
}

// IsManifestPath reports whether p names a manifest file.
func IsManifestPath(p string) bool {
	return path.Base(p) == ManifestFileName
}

// Ancestors yields dir and every parent of dir up to and including the root.
func Ancestors(dir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		current := path.Clean(dir)
		for {
			if !yield(current) {
				return
			}
			parent := path.Dir(current)
			if parent == current {
				return
			}
			current = parent
		}
	}
}
