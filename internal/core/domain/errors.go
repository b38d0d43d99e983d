package domain

import "go.trai.ch/zerr"

var (
	// ErrManifestMissing is raised when a manifest is added or updated for a path that does not exist.
	// Callers must check existence first, so this always indicates a programming error.
	ErrManifestMissing = zerr.New("manifest file does not exist")

	// ErrNotManifestPath is raised when a manifest cache mutation names a file that is not a manifest.
	// Like ErrManifestMissing, it always indicates a programming error.
	ErrNotManifestPath = zerr.New("path is not a manifest file")

	// ErrManifestReadFailed is returned when an existing manifest file cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest file")

	// ErrManifestParseFailed is returned when a manifest file is not valid JSON.
	ErrManifestParseFailed = zerr.New("failed to parse manifest file")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no project configuration can be found for a file.
	ErrConfigNotFound = zerr.New("could not find tsconfig.json")

	// ErrInvalidModuleKind is returned when compilerOptions.module holds an unsupported value.
	ErrInvalidModuleKind = zerr.New("invalid module kind")

	// ErrFileNotFound is returned when a requested source file does not exist.
	ErrFileNotFound = zerr.New("file not found")

	// ErrFileReadFailed is returned when a source file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read file")

	// ErrImportScanFailed is returned when the import scanner cannot parse a source file.
	ErrImportScanFailed = zerr.New("failed to scan imports")

	// ErrWatchFailed is returned when the host cannot watch a path.
	ErrWatchFailed = zerr.New("failed to watch path")

	// ErrWatcherClosed is returned when a watch is requested after the watcher was stopped.
	ErrWatcherClosed = zerr.New("watcher is closed")

	// ErrTaskFailed is returned when a scheduled task fails.
	ErrTaskFailed = zerr.New("scheduled task failed")

	// ErrTickLimitExceeded is returned when tasks keep rescheduling themselves past the tick limit.
	ErrTickLimitExceeded = zerr.New("scheduler did not settle within the tick limit")

	// ErrProjectNotFound is returned when no project contains the requested file.
	ErrProjectNotFound = zerr.New("project not found")

	// ErrNoFilesSpecified is returned when a command needs at least one file.
	ErrNoFilesSpecified = zerr.New("no files specified")

	// ErrDiagnosticsReported is returned when a one-shot resolve reports error diagnostics.
	ErrDiagnosticsReported = zerr.New("resolution reported errors")
)
