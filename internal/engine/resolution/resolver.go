package resolution

import (
	"path"
	"slices"
	"strings"

	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/resolvd/internal/engine/manifest"
)

// Resolver resolves module specifiers against the file system and the manifest cache.
// Every manifest it consults goes through the cache, so each lookup is recorded
// as a dependency of the result.
type Resolver struct {
	fs        ports.FileSystem
	manifests *manifest.Cache
}

// NewResolver creates a new Resolver.
func NewResolver(fs ports.FileSystem, manifests *manifest.Cache) *Resolver {
	return &Resolver{fs: fs, manifests: manifests}
}

// FileMode returns the module format of file and the nearest manifest that decided it.
// The consulted manifest paths are returned as dependencies.
func (r *Resolver) FileMode(file string, opts domain.CompilerOptions) (domain.ResolutionMode, *domain.ManifestInfo, []string) {
	return r.fileMode(file, opts, &traceLog{})
}

func (r *Resolver) fileMode(
	file string,
	opts domain.CompilerOptions,
	tl *traceLog,
) (domain.ResolutionMode, *domain.ManifestInfo, []string) {
	info, consulted := r.manifests.NearestFunc(domain.DirOf(file), tl.manifest)

	if !opts.Module.UsesPerFileFormat() {
		if opts.Module == domain.ModuleCommonJS {
			return domain.ModeCommonJS, info, consulted
		}
		return domain.ModeESM, info, consulted
	}
	if mode, ok := formatOfExtension(sourceExtension(file)); ok {
		return mode, info, consulted
	}
	if info != nil && info.Type == domain.ModuleTypeModule {
		return domain.ModeESM, info, consulted
	}
	return domain.ModeCommonJS, info, consulted
}

// lookup carries the state of one resolution.
type lookup struct {
	res  *domain.CachedResolution
	deps map[string]struct{}
	tl   *traceLog
}

func (l *lookup) depend(paths ...string) {
	for _, p := range paths {
		l.deps[p] = struct{}{}
	}
}

func (l *lookup) failed(p string) {
	l.res.FailedLookups = append(l.res.FailedLookups, p)
}

// Resolve resolves specifier as imported from containingFile.
// Failures are part of the result; Resolve itself never fails.
func (r *Resolver) Resolve(specifier, containingFile string, opts domain.CompilerOptions) *domain.CachedResolution {
	l := &lookup{
		res:  &domain.CachedResolution{},
		deps: make(map[string]struct{}),
		tl:   &traceLog{enabled: opts.TraceResolution},
	}

	mode, info, consulted := r.fileMode(containingFile, opts, l.tl)
	l.depend(consulted...)
	l.res.Mode = mode
	if info != nil {
		l.res.ManifestPath = info.Path
	}

	l.tl.printf("======== Resolving module '%s' from '%s'. ========", specifier, containingFile)
	if opts.ModuleResolution == "" {
		l.tl.printf("Module resolution kind is not specified, using '%s'.", resolutionKind(opts.Module))
	} else {
		l.tl.printf("Explicitly specified module resolution kind: '%s'.", opts.ModuleResolution)
	}
	conditions := traceConditions(mode, opts)
	l.tl.printf("Resolving in %s mode with conditions %s.", modeLabel(mode), quoteList(conditions))

	var resolved string
	switch {
	case strings.HasPrefix(specifier, "/"):
		resolved = r.loadFile(l, path.Clean(specifier), mode)
	case isRelative(specifier):
		resolved = r.loadFile(l, path.Join(domain.DirOf(containingFile), specifier), mode)
	default:
		resolved = r.loadNodeModules(l, specifier, containingFile, matchConditions(mode, opts))
	}

	if resolved == "" {
		l.res.Failed = true
		l.tl.printf("======== Module name '%s' was not resolved. ========", specifier)
	} else {
		l.res.Resolved = resolved
		l.res.Extension = sourceExtension(resolved)
		l.tl.printf("======== Module name '%s' was successfully resolved to '%s'. ========", specifier, resolved)
		l.res.TargetMode = r.targetMode(l, resolved, opts)
	}

	l.res.Dependencies = make([]string, 0, len(l.deps))
	for dep := range l.deps {
		l.res.Dependencies = append(l.res.Dependencies, dep)
	}
	slices.Sort(l.res.Dependencies)
	l.res.Trace = l.tl.lines
	return l.res
}

func (r *Resolver) targetMode(l *lookup, resolved string, opts domain.CompilerOptions) domain.ResolutionMode {
	if !opts.Module.UsesPerFileFormat() {
		if opts.Module == domain.ModuleCommonJS {
			return domain.ModeCommonJS
		}
		return domain.ModeESM
	}
	if mode, ok := formatOfExtension(l.res.Extension); ok {
		return mode
	}
	info, consulted := r.manifests.NearestFunc(domain.DirOf(resolved), l.tl.manifest)
	l.depend(consulted...)
	if info != nil && info.Type == domain.ModuleTypeModule {
		return domain.ModeESM
	}
	return domain.ModeCommonJS
}

// loadFile tries the TypeScript files candidate can refer to.
func (r *Resolver) loadFile(l *lookup, candidate string, mode domain.ResolutionMode) string {
	l.tl.printf("Loading module as file / folder, candidate module location '%s', "+
		"target file types: TypeScript, Declaration.", candidate)

	var tries []string
	ext := sourceExtension(candidate)
	switch subs, ok := substitutes[ext]; {
	case ok:
		l.tl.printf("File name '%s' has a '%s' extension - stripping it.", candidate, ext)
		base := strings.TrimSuffix(candidate, ext)
		for _, s := range subs {
			tries = append(tries, base+s)
		}
	case ext != "":
		tries = []string{candidate}
	case mode == domain.ModeCommonJS:
		for _, s := range extensionlessTries {
			tries = append(tries, candidate+s)
		}
	default:
		// ECMAScript imports need an explicit extension.
		l.failed(candidate)
	}

	for _, try := range tries {
		if r.fs.PathExists(try) {
			l.tl.printf("File '%s' exist - use it as a name resolution result.", try)
			return try
		}
		l.tl.printf("File '%s' does not exist.", try)
		l.failed(try)
	}
	return ""
}

func (r *Resolver) loadNodeModules(l *lookup, specifier, containingFile string, conditions []string) string {
	name, sub := splitPackage(specifier)
	packages := []string{name}
	if !strings.HasPrefix(name, "@types/") {
		packages = append(packages, typesPackage(name))
	}

	l.tl.printf("Loading module '%s' from 'node_modules' folder, target file types: TypeScript, Declaration.", specifier)
	for dir := range domain.Ancestors(domain.DirOf(containingFile)) {
		if path.Base(dir) == domain.NodeModulesDirName {
			continue
		}
		modules := path.Join(dir, domain.NodeModulesDirName)
		if !r.fs.DirectoryExists(modules) {
			l.tl.printf("Directory '%s' does not exist, skipping all lookups in it.", modules)
			l.failed(modules)
			continue
		}
		for _, pkg := range packages {
			if resolved := r.loadPackage(l, path.Join(modules, pkg), sub, conditions); resolved != "" {
				l.res.External = true
				return resolved
			}
		}
	}
	return ""
}

func (r *Resolver) loadPackage(l *lookup, pkgDir, sub string, conditions []string) string {
	if !r.fs.DirectoryExists(pkgDir) {
		l.failed(pkgDir)
		return ""
	}

	manifestPath := domain.ManifestPathIn(pkgDir)
	found, probed := r.manifests.Ensure(pkgDir)
	l.tl.manifest(manifestPath, found.Presence, !probed)
	l.depend(manifestPath)

	if !found.Found() {
		return r.loadFile(l, path.Join(pkgDir, orIndex(sub)), domain.ModeCommonJS)
	}
	info := found.Info

	if info.Exports != nil {
		subpath := "."
		if sub != "" {
			subpath = "./" + sub
		}
		target, ok := resolveExports(info.Exports, subpath, conditions)
		if !ok {
			l.tl.printf("Export specifier '%s' does not exist in package.json scope path '%s'.", subpath, pkgDir)
			l.failed(manifestPath)
			return ""
		}
		l.tl.printf("Using 'exports' subpath '%s' with target '%s'.", subpath, target)
		return r.loadFile(l, path.Join(pkgDir, target), domain.ModeESM)
	}

	if sub != "" {
		if subs, versionRange, ok := resolveTypesVersions(info.TypesVersions, sub); ok {
			l.tl.printf("'package.json' has a 'typesVersions' entry '%s' that matches compiler version, "+
				"looking for a pattern to match module name '%s'.", versionRange, sub)
			for _, s := range subs {
				if resolved := r.loadFile(l, path.Join(pkgDir, s), domain.ModeCommonJS); resolved != "" {
					return resolved
				}
			}
		} else if len(info.TypesVersions) == 0 {
			l.tl.printf("'package.json' does not have a 'typesVersions' field.")
		}
		return r.loadFile(l, path.Join(pkgDir, sub), domain.ModeCommonJS)
	}

	for _, field := range [...]struct{ name, value string }{{"types", info.Types}, {"main", info.Main}} {
		if field.value == "" {
			l.tl.printf("'package.json' does not have a '%s' field.", field.name)
			continue
		}
		target := path.Join(pkgDir, field.value)
		l.tl.printf("'package.json' has '%s' field '%s' that references '%s'.", field.name, field.value, target)
		if resolved := r.loadFile(l, target, domain.ModeCommonJS); resolved != "" {
			return resolved
		}
	}
	return r.loadFile(l, path.Join(pkgDir, "index"), domain.ModeCommonJS)
}

func orIndex(sub string) string {
	if sub == "" {
		return "index"
	}
	return sub
}

// resolutionKind names the resolution algorithm implied by the module option.
func resolutionKind(module domain.ModuleKind) string {
	switch module {
	case domain.ModuleNode16:
		return "Node16"
	case domain.ModuleNodeNext:
		return "NodeNext"
	case domain.ModuleESNext, domain.ModulePreserve:
		return "Bundler"
	default:
		return "Node10"
	}
}

func modeLabel(mode domain.ResolutionMode) string {
	if mode == domain.ModeESM {
		return "ESM"
	}
	return "CJS"
}

func modeCondition(mode domain.ResolutionMode) string {
	if mode == domain.ModeESM {
		return "import"
	}
	return "require"
}

// traceConditions lists the active conditions the way traces print them.
func traceConditions(mode domain.ResolutionMode, opts domain.CompilerOptions) []string {
	conditions := slices.Clone(opts.CustomConditions)
	if opts.Module.UsesPerFileFormat() || opts.Module == domain.ModuleCommonJS {
		conditions = append(conditions, "node")
	}
	return append(conditions, modeCondition(mode), "types")
}

// matchConditions lists the active conditions in matching priority.
func matchConditions(mode domain.ResolutionMode, opts domain.CompilerOptions) []string {
	conditions := append([]string{"types"}, opts.CustomConditions...)
	conditions = append(conditions, modeCondition(mode))
	if opts.Module.UsesPerFileFormat() || opts.Module == domain.ModuleCommonJS {
		conditions = append(conditions, "node")
	}
	return conditions
}
