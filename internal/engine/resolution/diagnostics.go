package resolution

import (
	"fmt"

	"go.trai.ch/resolvd/internal/core/domain"
)

// Diagnose reports the problem with an import, if any.
func Diagnose(file string, ref domain.ImportRef, res *domain.CachedResolution, opts domain.CompilerOptions) (domain.Diagnostic, bool) {
	diag := domain.Diagnostic{
		File:     file,
		Line:     ref.Line,
		Column:   ref.Column,
		Category: domain.CategoryError,
	}

	switch {
	case res.Failed:
		diag.Code = domain.CodeCannotFindModule
		diag.Message = fmt.Sprintf("Cannot find module '%s' or its corresponding type declarations.", ref.Specifier)
		return diag, true
	case opts.Module.UsesPerFileFormat() &&
		ref.Kind != domain.ImportDynamic &&
		res.Mode == domain.ModeCommonJS &&
		res.TargetMode == domain.ModeESM:
		diag.Code = domain.CodeCJSImportsESM
		diag.Message = cjsImportsESMMessage(file, ref.Specifier, res.ManifestPath)
		return diag, true
	default:
		return domain.Diagnostic{}, false
	}
}

func cjsImportsESMMessage(file, specifier, manifestPath string) string {
	msg := "The current file is a CommonJS module whose imports will produce 'require' calls; " +
		"however, the referenced file is an ECMAScript module and cannot be imported with 'require'. " +
		fmt.Sprintf("Consider writing a dynamic 'import(\"%s\")' call instead.", specifier)

	ext, ok := esmExtensionFor(file)
	if !ok {
		return msg
	}
	if manifestPath != "" {
		return msg + fmt.Sprintf("\n  To convert this file to an ECMAScript module, change its file extension to '%s', "+
			"or add the field `\"type\": \"module\"` to '%s'.", ext, manifestPath)
	}
	return msg + fmt.Sprintf("\n  To convert this file to an ECMAScript module, change its file extension to '%s' "+
		"or create a local package.json file with `{ \"type\": \"module\" }`.", ext)
}
