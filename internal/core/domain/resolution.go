package domain

import (
	"fmt"
	"strconv"
)

// ResolutionMode is the module system an import is resolved under.
type ResolutionMode uint8

const (
	// ModeCommonJS resolves the import as a require call.
	ModeCommonJS ResolutionMode = iota
	// ModeESM resolves the import as an ECMAScript import.
	ModeESM
)

// String returns the mode name used in traces.
func (m ResolutionMode) String() string {
	if m == ModeESM {
		return "ESNext"
	}
	return "CommonJS"
}

// ResolutionKey identifies a cached resolution.
type ResolutionKey struct {
	Name      InternedString
	File      InternedString
	Signature uint64
}

// NewResolutionKey creates a ResolutionKey.
func NewResolutionKey(name, file string, signature uint64) ResolutionKey {
	return ResolutionKey{
		Name:      NewInternedString(name),
		File:      NewInternedString(file),
		Signature: signature,
	}
}

// String renders the key for logs.
func (k ResolutionKey) String() string {
	return fmt.Sprintf("%q from %s (%016x)", k.Name.String(), k.File.String(), k.Signature)
}

// CachedResolution is the outcome of resolving one import.
type CachedResolution struct {
	// Resolved is the target file, empty when Failed is set.
	Resolved string
	// Extension is the extension of the resolved file, e.g. ".mts".
	Extension string
	// Mode is the mode of the importing file.
	Mode ResolutionMode
	// TargetMode is the module format of the resolved file.
	TargetMode ResolutionMode
	// External is set when the target lives under node_modules.
	External bool
	Failed   bool
	// ManifestPath is the nearest manifest of the importing file, empty when none exists.
	ManifestPath string
	// Dependencies are the manifest paths consulted; a change to any of them invalidates the entry.
	Dependencies []string
	// FailedLookups are candidate files probed without success.
	FailedLookups []string
	// Trace holds resolution trace lines when tracing is enabled.
	Trace []string
}

// DiagnosticCategory is the severity of a diagnostic.
type DiagnosticCategory uint8

const (
	// CategoryError marks an error diagnostic.
	CategoryError DiagnosticCategory = iota
	// CategoryWarning marks a warning diagnostic.
	CategoryWarning
)

// String returns the category name.
func (c DiagnosticCategory) String() string {
	if c == CategoryWarning {
		return "warning"
	}
	return "error"
}

const (
	// CodeCJSImportsESM is reported when a CommonJS file imports an ECMAScript module.
	CodeCJSImportsESM = 1479
	// CodeCannotFindModule is reported when an import cannot be resolved.
	CodeCannotFindModule = 2307
)

// Diagnostic is a problem reported for a source file position.
// Line and Column are 1-based.
type Diagnostic struct {
	File     string
	Line     int
	Column   int
	Code     int
	Category DiagnosticCategory
	Message  string
}

// String renders the diagnostic in compiler output format.
func (d Diagnostic) String() string {
	return d.File + ":" + strconv.Itoa(d.Line) + ":" + strconv.Itoa(d.Column) +
		" - " + d.Category.String() + " TS" + strconv.Itoa(d.Code) + ": " + d.Message
}
