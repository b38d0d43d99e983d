// Package watch routes file system notifications to subscribers.
//
// Registry is a callback table keyed by canonical path, shared by every project of
// a service. Binding tracks the paths one project depends on and keeps its
// subscriptions in sync with them.
package watch

import (
	"sync"

	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.WatchHost = (*Registry)(nil)

type subscription struct {
	id uint64
	cb ports.WatchCallback
}

// Registry implements ports.WatchHost on top of a raw directory watcher.
// OS watches are reference counted per directory: the first subscriber in a
// directory installs the watch and the last Close removes it.
type Registry struct {
	fsw   ports.FSWatcher
	canon ports.PathCanonicalizer

	mu     sync.Mutex
	files  map[string][]subscription
	dirs   map[string][]subscription
	osDirs map[string]int
	nextID uint64
}

// NewRegistry creates an empty Registry.
func NewRegistry(fsw ports.FSWatcher, canon ports.PathCanonicalizer) *Registry {
	return &Registry{
		fsw:    fsw,
		canon:  canon,
		files:  make(map[string][]subscription),
		dirs:   make(map[string][]subscription),
		osDirs: make(map[string]int),
	}
}

// WatchFile calls cb for changes to the file at path, including its creation and removal.
func (r *Registry) WatchFile(path string, cb ports.WatchCallback) (ports.WatchHandle, error) {
	path = r.canon.ToCanonicalPath(path)
	return r.subscribe(r.files, path, domain.DirOf(path), cb)
}

// WatchDirectory calls cb for changes to direct children of the directory at path.
func (r *Registry) WatchDirectory(path string, cb ports.WatchCallback) (ports.WatchHandle, error) {
	path = r.canon.ToCanonicalPath(path)
	return r.subscribe(r.dirs, path, path, cb)
}

func (r *Registry) subscribe(table map[string][]subscription, key, osDir string, cb ports.WatchCallback) (ports.WatchHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.osDirs[osDir] == 0 {
		if err := r.fsw.Add(osDir); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrWatchFailed, err.Error()), "path", key)
		}
	}
	r.osDirs[osDir]++

	r.nextID++
	sub := subscription{id: r.nextID, cb: cb}
	table[key] = append(table[key], sub)

	return &handle{registry: r, table: table, key: key, osDir: osDir, id: sub.id}, nil
}

func (r *Registry) unsubscribe(h *handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := h.table[h.key]
	for i, sub := range subs {
		if sub.id == h.id {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(h.table, h.key)
	} else {
		h.table[h.key] = subs
	}

	r.osDirs[h.osDir]--
	if r.osDirs[h.osDir] > 0 {
		return nil
	}
	delete(r.osDirs, h.osDir)
	return r.fsw.Remove(h.osDir)
}

// Dispatch delivers event to the file subscribers of its path and the directory
// subscribers of its parent. Callbacks run on the caller's goroutine, outside the lock.
func (r *Registry) Dispatch(event ports.WatchEvent) int {
	event.Path = r.canon.ToCanonicalPath(event.Path)

	r.mu.Lock()
	var callbacks []ports.WatchCallback
	for _, sub := range r.files[event.Path] {
		callbacks = append(callbacks, sub.cb)
	}
	for _, sub := range r.dirs[domain.DirOf(event.Path)] {
		callbacks = append(callbacks, sub.cb)
	}
	r.mu.Unlock()

	for _, cb := range callbacks {
		cb(event)
	}
	return len(callbacks)
}

// Watched reports whether path has at least one file or directory subscriber.
func (r *Registry) Watched(path string) bool {
	path = r.canon.ToCanonicalPath(path)

	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files[path]) > 0 || len(r.dirs[path]) > 0
}

// OSWatches returns the number of directories currently watched on the host.
func (r *Registry) OSWatches() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.osDirs)
}

type handle struct {
	registry *Registry
	table    map[string][]subscription
	key      string
	osDir    string
	id       uint64
	once     sync.Once
}

// Close releases the subscription. Closing twice is a no-op.
func (h *handle) Close() error {
	var err error
	h.once.Do(func() {
		err = h.registry.unsubscribe(h)
	})
	return err
}
