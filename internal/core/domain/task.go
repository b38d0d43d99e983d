package domain

// TaskKind identifies the kind of deferred work the scheduler runs.
// Kinds are ordered by priority: lower values run first within a tick.
type TaskKind uint8

const (
	// TaskInvalidateFailedLookups syncs changed manifests into the cache and
	// invalidates resolutions that depended on them.
	TaskInvalidateFailedLookups TaskKind = iota
	// TaskRebuildProject re-resolves invalidated imports and resyncs watches.
	TaskRebuildProject
	// TaskRefreshOpenFileDiagnostics reports diagnostics for open files.
	TaskRefreshOpenFileDiagnostics
)

// String returns the kind name.
func (k TaskKind) String() string {
	switch k {
	case TaskInvalidateFailedLookups:
		return "InvalidateFailedLookups"
	case TaskRebuildProject:
		return "RebuildProject"
	case TaskRefreshOpenFileDiagnostics:
		return "RefreshOpenFileDiagnostics"
	default:
		return "Unknown"
	}
}

func (k TaskKind) suffix() string {
	switch k {
	case TaskInvalidateFailedLookups:
		return "FailedLookupInvalidation"
	case TaskRebuildProject:
		return "Rebuild"
	case TaskRefreshOpenFileDiagnostics:
		return "OpenFileDiagnostics"
	default:
		return "Unknown"
	}
}

// TaskKey is the dedup key of a scheduled task.
type TaskKey struct {
	Project InternedString
	Kind    TaskKind
}

// NewTaskKey creates a TaskKey for the given project and kind.
func NewTaskKey(project string, kind TaskKind) TaskKey {
	return TaskKey{Project: NewInternedString(project), Kind: kind}
}

// String renders the key as it appears in logs, e.g. "/p/tsconfig.jsonFailedLookupInvalidation".
func (k TaskKey) String() string {
	return k.Project.String() + k.Kind.suffix()
}
