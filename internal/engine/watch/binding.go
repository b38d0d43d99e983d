package watch

import (
	"maps"
	"slices"
	"strings"

	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
)

// Target is a path a project depends on.
type Target struct {
	Path string
	// Directory selects a watch on the children of Path instead of Path itself.
	Directory bool
}

// FileTarget returns a Target for the file at path.
func FileTarget(path string) Target {
	return Target{Path: path}
}

// DirectoryTarget returns a Target for the children of the directory at path.
func DirectoryTarget(path string) Target {
	return Target{Path: path, Directory: true}
}

func (t Target) String() string {
	if t.Directory {
		return t.Path + "/"
	}
	return t.Path
}

// Binding holds the subscriptions of one project.
type Binding struct {
	host   ports.WatchHost
	owner  string
	cb     ports.WatchCallback
	log    ports.Logger
	events ports.EventSink

	handles map[Target]ports.WatchHandle
	failed  map[Target]struct{}
}

// NewBinding creates a Binding that delivers every notification to cb.
// owner names the project in events and warnings.
func NewBinding(host ports.WatchHost, owner string, cb ports.WatchCallback, log ports.Logger, events ports.EventSink) *Binding {
	return &Binding{
		host:    host,
		owner:   owner,
		cb:      cb,
		log:     log,
		events:  events,
		handles: make(map[Target]ports.WatchHandle),
		failed:  make(map[Target]struct{}),
	}
}

// Sync opens subscriptions for new targets and closes the ones no longer listed.
// It returns the targets whose subscriptions were closed, in path order.
//
// A target the host cannot watch is skipped with a warning: the project keeps working
// but will not notice changes to it. Failed targets are retried on the next Sync.
func (b *Binding) Sync(targets []Target) []Target {
	want := make(map[Target]struct{}, len(targets))
	for _, t := range targets {
		want[t] = struct{}{}
	}

	var released []Target
	for _, t := range slices.SortedFunc(maps.Keys(b.handles), compareTargets) {
		if _, ok := want[t]; ok {
			continue
		}
		if err := b.handles[t].Close(); err != nil {
			b.log.Warn("cannot stop watching " + t.String() + ": " + err.Error())
		}
		delete(b.handles, t)
		released = append(released, t)
		b.events.Emit(domain.Event{Kind: domain.EventWatchClosed, Path: t.String(), Key: b.owner})
	}
	for t := range b.failed {
		if _, ok := want[t]; !ok {
			delete(b.failed, t)
		}
	}

	for _, t := range slices.SortedFunc(maps.Keys(want), compareTargets) {
		if _, ok := b.handles[t]; ok {
			continue
		}
		h, err := b.open(t)
		if err != nil {
			if _, warned := b.failed[t]; !warned {
				b.failed[t] = struct{}{}
				b.log.Warn("cannot watch " + t.String() + ", changes to it will not be picked up: " + err.Error())
				b.events.Emit(domain.Event{Kind: domain.EventWatchFailed, Path: t.String(), Key: b.owner})
			}
			continue
		}
		delete(b.failed, t)
		b.handles[t] = h
		b.events.Emit(domain.Event{Kind: domain.EventWatchAdded, Path: t.String(), Key: b.owner})
	}
	return released
}

func (b *Binding) open(t Target) (ports.WatchHandle, error) {
	if t.Directory {
		return b.host.WatchDirectory(t.Path, b.cb)
	}
	return b.host.WatchFile(t.Path, b.cb)
}

// Watched returns the active targets in path order.
func (b *Binding) Watched() []Target {
	return slices.SortedFunc(maps.Keys(b.handles), compareTargets)
}

// Failed returns the targets that could not be watched.
func (b *Binding) Failed() []Target {
	return slices.SortedFunc(maps.Keys(b.failed), compareTargets)
}

// Close releases every subscription and returns the released targets.
func (b *Binding) Close() []Target {
	return b.Sync(nil)
}

// Has reports whether t is currently watched.
func (b *Binding) Has(t Target) bool {
	_, ok := b.handles[t]
	return ok
}

func compareTargets(a, b Target) int {
	if c := strings.Compare(a.Path, b.Path); c != 0 {
		return c
	}
	switch {
	case a.Directory == b.Directory:
		return 0
	case a.Directory:
		return 1
	default:
		return -1
	}
}
