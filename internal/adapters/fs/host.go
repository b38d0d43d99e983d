// Package fs provides the file system capability used by the caches.
package fs

import (
	"iter"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*Host)(nil)

// alwaysSkipped are directories never descended into.
var alwaysSkipped = []string{".git", ".jj"}

// Host implements ports.FileSystem on top of a billy.Filesystem.
// Paths are absolute and slash-separated.
type Host struct {
	fs billy.Filesystem
}

// NewHost creates a Host backed by fsys.
func NewHost(fsys billy.Filesystem) *Host {
	return &Host{fs: fsys}
}

// NewOSHost creates a Host backed by the operating system file system.
func NewOSHost() *Host {
	return NewHost(osfs.New("/"))
}

// NewMemHost creates a Host backed by an empty in-memory file system.
func NewMemHost() *Host {
	return NewHost(memfs.New())
}

// PathExists reports whether a regular file exists at p.
func (h *Host) PathExists(p string) bool {
	info, err := h.fs.Stat(p)
	return err == nil && !info.IsDir()
}

// DirectoryExists reports whether a directory exists at p.
func (h *Host) DirectoryExists(p string) bool {
	info, err := h.fs.Stat(p)
	return err == nil && info.IsDir()
}

// ReadFile reads the entire file at p.
// A missing file yields an error matching os.ErrNotExist.
func (h *Host) ReadFile(p string) ([]byte, error) {
	data, err := util.ReadFile(h.fs, p)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", p)
	}
	return data, nil
}

// WriteFile writes data to p, creating parent directories as needed.
func (h *Host) WriteFile(p string, data []byte) error {
	if err := h.fs.MkdirAll(path.Dir(p), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path.Dir(p))
	}
	if err := util.WriteFile(h.fs, p, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", p)
	}
	return nil
}

// Remove deletes the file at p.
func (h *Host) Remove(p string) error {
	if err := h.fs.Remove(p); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove file"), "path", p)
	}
	return nil
}

// WalkFiles yields every regular file below root, skipping .git, .jj and directories named in ignore.
func (h *Host) WalkFiles(root string, ignore []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = util.Walk(h.fs, root, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				// Unreadable entries are skipped; the walk carries on.
				return nil //nolint:nilerr // skipping problematic entries is intended
			}

			if info.IsDir() {
				if p != root && shouldSkipDir(info.Name(), ignore) {
					return filepath.SkipDir
				}
				return nil
			}

			if !yield(filepath.ToSlash(p)) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func shouldSkipDir(name string, ignore []string) bool {
	if slices.Contains(alwaysSkipped, name) {
		return true
	}
	for _, pattern := range ignore {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
