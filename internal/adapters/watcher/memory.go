package watcher

import (
	"maps"
	"slices"
	"sync"

	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FSWatcher = (*MemWatcher)(nil)

// MemWatcher is an in-memory ports.FSWatcher. Events are injected with Send.
// It pairs with an in-memory file system host.
type MemWatcher struct {
	mu      sync.Mutex
	watched map[string]struct{}
	denied  map[string]struct{}
	events  chan ports.WatchEvent
	closed  bool
}

// NewMemWatcher creates a MemWatcher.
func NewMemWatcher() *MemWatcher {
	return &MemWatcher{
		watched: make(map[string]struct{}),
		denied:  make(map[string]struct{}),
		events:  make(chan ports.WatchEvent, eventChannelBuffer),
	}
}

// Deny makes later Add calls for dir fail.
func (w *MemWatcher) Deny(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.denied[dir] = struct{}{}
}

// Add starts watching dir.
func (w *MemWatcher) Add(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return zerr.With(zerr.Wrap(domain.ErrWatcherClosed, "cannot add watch"), "path", dir)
	}
	if _, ok := w.denied[dir]; ok {
		return zerr.With(zerr.Wrap(domain.ErrWatchFailed, "permission denied"), "path", dir)
	}
	w.watched[dir] = struct{}{}
	return nil
}

// Remove stops watching dir.
func (w *MemWatcher) Remove(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.watched, dir)
	return nil
}

// Watched returns the watched directories in order.
func (w *MemWatcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Sorted(maps.Keys(w.watched))
}

// Send queues event if its directory is watched and reports whether it was queued.
func (w *MemWatcher) Send(event ports.WatchEvent) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false
	}
	if _, ok := w.watched[domain.DirOf(event.Path)]; !ok {
		return false
	}
	w.events <- event
	return true
}

// Events returns the queued events.
func (w *MemWatcher) Events() <-chan ports.WatchEvent {
	return w.events
}

// Close closes the event channel.
func (w *MemWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.closed {
		w.closed = true
		close(w.events)
	}
	return nil
}
