package resolution

import (
	"path"
	"strings"

	"go.trai.ch/resolvd/internal/core/domain"
)

var declarationExtensions = []string{".d.mts", ".d.cts", ".d.ts"}

// sourceExtension returns the extension of a TypeScript or JavaScript file name,
// treating declaration extensions as one unit. It returns "" for other names.
func sourceExtension(name string) string {
	for _, ext := range declarationExtensions {
		if strings.HasSuffix(name, ext) {
			return ext
		}
	}
	switch ext := path.Ext(name); ext {
	case ".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs":
		return ext
	default:
		return ""
	}
}

// substitutes maps a JavaScript extension to the TypeScript files that emit it.
var substitutes = map[string][]string{
	".mjs": {".mts", ".d.mts"},
	".cjs": {".cts", ".d.cts"},
	".js":  {".ts", ".tsx", ".d.ts"},
	".jsx": {".tsx", ".d.ts"},
}

// extensionlessTries are the suffixes tried for an extensionless CommonJS specifier.
var extensionlessTries = []string{".ts", ".tsx", ".d.ts", "/index.ts", "/index.tsx", "/index.d.ts"}

// formatOfExtension returns the module format fixed by ext, if any.
func formatOfExtension(ext string) (domain.ResolutionMode, bool) {
	switch ext {
	case ".mts", ".mjs", ".d.mts":
		return domain.ModeESM, true
	case ".cts", ".cjs", ".d.cts":
		return domain.ModeCommonJS, true
	default:
		return domain.ModeCommonJS, false
	}
}

// esmExtensionFor returns the extension a CommonJS file would need to become an ECMAScript module.
func esmExtensionFor(file string) (string, bool) {
	switch sourceExtension(file) {
	case ".ts", ".tsx":
		return ".mts", true
	case ".js", ".jsx":
		return ".mjs", true
	default:
		return "", false
	}
}

// IsSourceFile reports whether name is a file the resolver treats as a project source.
func IsSourceFile(name string) bool {
	switch sourceExtension(name) {
	case ".ts", ".tsx", ".mts", ".cts", ".d.ts", ".d.mts", ".d.cts":
		return true
	default:
		return false
	}
}

func isRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") ||
		strings.HasPrefix(specifier, "/")
}

// splitPackage splits a bare specifier into its package name and subpath.
// "@scope/pkg/sub/file" becomes ("@scope/pkg", "sub/file").
func splitPackage(specifier string) (string, string) {
	parts := strings.SplitN(specifier, "/", 3)
	if strings.HasPrefix(specifier, "@") && len(parts) >= 2 {
		name := parts[0] + "/" + parts[1]
		if len(parts) == 3 {
			return name, parts[2]
		}
		return name, ""
	}
	name, sub, _ := strings.Cut(specifier, "/")
	return name, sub
}

// typesPackage returns the @types package name for name.
func typesPackage(name string) string {
	if scope, pkg, ok := strings.Cut(strings.TrimPrefix(name, "@"), "/"); ok && strings.HasPrefix(name, "@") {
		return "@types/" + scope + "__" + pkg
	}
	return "@types/" + name
}
