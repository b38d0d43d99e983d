package domain

import (
	"runtime"
	"time"
)

// ProjectConfig is a loaded project configuration file.
type ProjectConfig struct {
	// Path is the canonical path of the configuration file. It is empty for inferred projects.
	Path string
	// Dir is the directory the file set is rooted at.
	Dir     string
	Options CompilerOptions
	// Files lists explicit root files as absolute paths.
	Files []string
	// Include and Exclude are glob patterns relative to Dir.
	Include []string
	Exclude []string
}

// Inferred reports whether the project has no configuration file.
func (c *ProjectConfig) Inferred() bool {
	return c.Path == ""
}

// ImportKind is the syntactic form of an import.
type ImportKind uint8

const (
	// ImportStatic is an import or export declaration with a module specifier.
	ImportStatic ImportKind = iota
	// ImportDynamic is an import() call.
	ImportDynamic
	// ImportRequire is a require() call or an import-equals declaration.
	ImportRequire
)

// ImportRef is a module specifier found in a source file.
// Line and Column are 1-based and point at the opening quote.
type ImportRef struct {
	Specifier string
	Line      int
	Column    int
	Kind      ImportKind
}

// Settings are the service settings read from resolvd.yaml.
type Settings struct {
	// Tick is the debounce window between a file event and the next scheduler run.
	Tick time.Duration
	// CaseSensitive controls canonical path folding.
	CaseSensitive bool
	// LogFormat is "pretty" or "json".
	LogFormat string
	// MaxTickIterations bounds how many ticks a settle loop may run.
	MaxTickIterations int
	// Ignore lists directory names skipped during source discovery.
	Ignore []string
}

const (
	// DefaultTick is the default debounce window.
	DefaultTick = 250 * time.Millisecond
	// DefaultMaxTickIterations is the default settle bound.
	DefaultMaxTickIterations = 32
)

// DefaultSettings returns the settings used when no resolvd.yaml exists.
func DefaultSettings() Settings {
	return Settings{
		Tick:              DefaultTick,
		CaseSensitive:     runtime.GOOS == "linux",
		LogFormat:         "pretty",
		MaxTickIterations: DefaultMaxTickIterations,
		Ignore:            []string{NodeModulesDirName, ".git"},
	}
}
