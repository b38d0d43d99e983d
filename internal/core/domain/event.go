package domain

import "strconv"

// EventKind classifies an observable cache or scheduler event.
type EventKind uint8

const (
	// EventManifestFound is emitted when a manifest is read into the cache.
	EventManifestFound EventKind = iota
	// EventManifestNotFound is emitted when a probe records a directory as Absent.
	EventManifestNotFound
	// EventManifestDeleted is emitted when a manifest entry is removed.
	EventManifestDeleted
	// EventManifestMalformed is emitted when a manifest exists but cannot be read or parsed.
	EventManifestMalformed
	// EventManifestInvalidated is emitted when a manifest path is forgotten and must be probed again.
	EventManifestInvalidated
	// EventTaskScheduled is emitted when a new task enters the pending set.
	EventTaskScheduled
	// EventTaskCoalesced is emitted when a trigger hits an already pending task.
	EventTaskCoalesced
	// EventTaskRunning is emitted right before a task runs.
	EventTaskRunning
	// EventWatchAdded is emitted when a path starts being watched for a project.
	EventWatchAdded
	// EventWatchClosed is emitted when a project stops watching a path.
	EventWatchClosed
	// EventWatchFailed is emitted when the host cannot watch a path.
	EventWatchFailed
	// EventResolutionInvalidated is emitted when cached resolutions are dropped.
	EventResolutionInvalidated
	// EventProjectRebuilt is emitted after a project rebuild completes.
	EventProjectRebuilt
	// EventDiagnosticsReported is emitted when diagnostics for an open file are refreshed.
	EventDiagnosticsReported
)

var eventKindNames = [...]string{
	EventManifestFound:         "manifest found",
	EventManifestNotFound:      "manifest not found",
	EventManifestDeleted:       "manifest deleted",
	EventManifestMalformed:     "manifest malformed",
	EventManifestInvalidated:   "manifest invalidated",
	EventTaskScheduled:         "scheduled invalidation",
	EventTaskCoalesced:         "coalesced invalidation",
	EventTaskRunning:           "running invalidation",
	EventWatchAdded:            "watch added",
	EventWatchClosed:           "watch closed",
	EventWatchFailed:           "watch failed",
	EventResolutionInvalidated: "resolutions invalidated",
	EventProjectRebuilt:        "project rebuilt",
	EventDiagnosticsReported:   "diagnostics reported",
}

// String returns the human readable event kind.
func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown event"
}

// Event is one entry of the structured event stream.
type Event struct {
	Kind EventKind
	// Path is the file or directory the event is about, if any.
	Path string
	// Key is the task or project key the event is about, if any.
	Key string
	// Count carries a quantity such as the number of invalidated resolutions.
	Count int
	// Err is the cause of a failure event, if any.
	Err error
}

// String renders the event as a log line, e.g. "manifest found at /p/package.json".
func (e Event) String() string {
	s := e.Kind.String()
	if e.Path != "" {
		s += " at " + e.Path
	}
	if e.Key != "" {
		s += " for " + e.Key
	}
	if e.Count > 0 {
		s += " (" + strconv.Itoa(e.Count) + ")"
	}
	return s
}
