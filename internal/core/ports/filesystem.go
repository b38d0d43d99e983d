package ports

import "iter"

// FileSystem is the host capability the caches use to probe and read files.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// PathExists reports whether a regular file exists at path.
	PathExists(path string) bool
	// DirectoryExists reports whether a directory exists at path.
	DirectoryExists(path string) bool
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// WalkFiles yields every regular file below root, skipping directories named in ignore.
	WalkFiles(root string, ignore []string) iter.Seq[string]
}

// PathCanonicalizer normalizes paths so they can be used as cache keys.
type PathCanonicalizer interface {
	// ToCanonicalPath returns the canonical, slash-separated form of path.
	ToCanonicalPath(path string) string
}
