package domain

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// ModuleKind is the value of compilerOptions.module.
type ModuleKind uint8

const (
	// ModuleCommonJS emits require calls for every file.
	ModuleCommonJS ModuleKind = iota
	// ModuleESNext emits import statements for every file.
	ModuleESNext
	// ModuleNode16 picks the format per file from its extension and nearest manifest.
	ModuleNode16
	// ModuleNodeNext behaves like ModuleNode16 for resolution purposes.
	ModuleNodeNext
	// ModulePreserve keeps the syntax as written.
	ModulePreserve
)

var moduleKindNames = map[string]ModuleKind{
	"commonjs": ModuleCommonJS,
	"es2015":   ModuleESNext,
	"es2020":   ModuleESNext,
	"es2022":   ModuleESNext,
	"esnext":   ModuleESNext,
	"node16":   ModuleNode16,
	"node18":   ModuleNode16,
	"nodenext": ModuleNodeNext,
	"preserve": ModulePreserve,
}

// ParseModuleKind parses a compilerOptions.module value case-insensitively.
func ParseModuleKind(s string) (ModuleKind, error) {
	kind, ok := moduleKindNames[strings.ToLower(s)]
	if !ok {
		return 0, zerr.With(zerr.Wrap(ErrInvalidModuleKind, "compilerOptions.module"), "module", s)
	}
	return kind, nil
}

// String returns the canonical option spelling.
func (k ModuleKind) String() string {
	switch k {
	case ModuleESNext:
		return "esnext"
	case ModuleNode16:
		return "node16"
	case ModuleNodeNext:
		return "nodenext"
	case ModulePreserve:
		return "preserve"
	default:
		return "commonjs"
	}
}

// UsesPerFileFormat reports whether the module format depends on each file.
func (k ModuleKind) UsesPerFileFormat() bool {
	return k == ModuleNode16 || k == ModuleNodeNext
}

// CompilerOptions holds the compiler options that influence module resolution.
type CompilerOptions struct {
	Module           ModuleKind
	ModuleResolution string
	CustomConditions []string
	TraceResolution  bool
}

// DefaultCompilerOptions returns the options used by inferred projects.
func DefaultCompilerOptions() CompilerOptions {
	return CompilerOptions{Module: ModuleNode16}
}

// Signature hashes every option that can change a resolution result.
// TraceResolution does not affect results and is left out.
func (o CompilerOptions) Signature() uint64 {
	conditions := slices.Clone(o.CustomConditions)
	slices.Sort(conditions)

	d := xxhash.New()
	_, _ = d.WriteString("module=" + strconv.Itoa(int(o.Module)))
	_, _ = d.WriteString(";resolution=" + strings.ToLower(o.ModuleResolution))
	_, _ = d.WriteString(";conditions=" + strings.Join(conditions, ","))
	return d.Sum64()
}
