package ports

import "io"

//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks

// WatchOp represents the type of file system operation.
type WatchOp uint8

const (
	// OpCreate indicates a file or directory was created.
	OpCreate WatchOp = iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed.
	OpRename
)

// String returns the operation name.
func (op WatchOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Gone reports whether the operation means the path no longer exists under its name.
func (op WatchOp) Gone() bool {
	return op == OpRemove || op == OpRename
}

// WatchEvent represents a file system event from the watcher.
type WatchEvent struct {
	// Path is the absolute path of the file or directory that changed.
	Path string
	// Operation is the type of change that occurred.
	Operation WatchOp
}

// WatchCallback is invoked on the event loop for every event on a watched path.
type WatchCallback func(event WatchEvent)

// WatchHandle stops a watch registration when closed.
type WatchHandle = io.Closer

// WatchHost is the "watch path, get callback on change" capability.
type WatchHost interface {
	// WatchFile calls cb for events on the file at path. The file need not exist.
	WatchFile(path string, cb WatchCallback) (WatchHandle, error)
	// WatchDirectory calls cb for events on direct children of the directory at path.
	WatchDirectory(path string, cb WatchCallback) (WatchHandle, error)
}

// FSWatcher is the low-level OS watcher primitive.
// Paths added are directories; events are reported for their direct children.
type FSWatcher interface {
	// Add starts watching the directory at path.
	Add(path string) error
	// Remove stops watching the directory at path.
	Remove(path string) error
	// Events returns the channel of file system events. It is closed when the watcher stops.
	Events() <-chan WatchEvent
	// Close stops the watcher and releases all resources.
	Close() error
}

// FSWatcherFactory creates an FSWatcher on demand.
// Watchers hold OS resources, so they are created only by commands that watch.
type FSWatcherFactory func() (FSWatcher, error)
