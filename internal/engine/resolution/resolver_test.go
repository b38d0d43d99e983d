package resolution_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/resolvd/internal/adapters/events"
	"go.trai.ch/resolvd/internal/adapters/fs"
	manifestparser "go.trai.ch/resolvd/internal/adapters/manifest"
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/engine/manifest"
	"go.trai.ch/resolvd/internal/engine/resolution"
)

const (
	root  = "/user/username/projects/myproject"
	fileA = root + "/src/fileA.ts"
	fileB = root + "/src/fileB.mts"
)

type fixture struct {
	host      *fs.Host
	manifests *manifest.Cache
	resolver  *resolution.Resolver
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()

	host := fs.NewMemHost()
	for p, content := range files {
		require.NoError(t, host.WriteFile(p, []byte(content)))
	}
	manifests := manifest.NewCache(host, manifestparser.NewParser(), fs.NewCanonicalizer(true), events.NewRecorder())
	return &fixture{
		host:      host,
		manifests: manifests,
		resolver:  resolution.NewResolver(host, manifests),
	}
}

func scenario(manifest string) map[string]string {
	return map[string]string{
		root + "/package.json": manifest,
		fileA:                  `import { foo } from "./fileB.mjs";`,
		fileB:                  `export function foo() {}`,
	}
}

func node16() domain.CompilerOptions {
	return domain.CompilerOptions{Module: domain.ModuleNode16}
}

func TestResolver_FileMode(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/esm/package.json": `{"type":"module"}`,
		"/cjs/package.json": `{"name":"cjs"}`,
	})

	tests := []struct {
		name string
		file string
		opts domain.CompilerOptions
		want domain.ResolutionMode
	}{
		{name: "type module", file: "/esm/a.ts", opts: node16(), want: domain.ModeESM},
		{name: "no type field", file: "/cjs/a.ts", opts: node16(), want: domain.ModeCommonJS},
		{name: "mts wins", file: "/cjs/a.mts", opts: node16(), want: domain.ModeESM},
		{name: "cts wins", file: "/esm/a.cts", opts: node16(), want: domain.ModeCommonJS},
		{name: "no manifest", file: "/none/a.ts", opts: node16(), want: domain.ModeCommonJS},
		{name: "module commonjs", file: "/esm/a.mts", opts: domain.CompilerOptions{Module: domain.ModuleCommonJS}, want: domain.ModeCommonJS},
		{name: "module esnext", file: "/cjs/a.cts", opts: domain.CompilerOptions{Module: domain.ModuleESNext}, want: domain.ModeESM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, _, _ := f.resolver.FileMode(tt.file, tt.opts)
			assert.Equal(t, tt.want, mode)
		})
	}
}

func TestResolver_Relative_TypeModule(t *testing.T) {
	f := newFixture(t, scenario(`{"name":"app","version":"1.0.0","type":"module"}`))

	res := f.resolver.Resolve("./fileB.mjs", fileA, node16())

	assert.False(t, res.Failed)
	assert.Equal(t, fileB, res.Resolved)
	assert.Equal(t, ".mts", res.Extension)
	assert.Equal(t, domain.ModeESM, res.Mode)
	assert.Equal(t, domain.ModeESM, res.TargetMode)
	assert.Equal(t, root+"/package.json", res.ManifestPath)
	assert.Equal(t, []string{root + "/package.json", root + "/src/package.json"}, res.Dependencies)
}

func TestResolver_Relative_NoTypeField(t *testing.T) {
	f := newFixture(t, scenario(`{"name":"app","version":"1.0.0"}`))

	res := f.resolver.Resolve("./fileB.mjs", fileA, node16())

	assert.Equal(t, fileB, res.Resolved)
	assert.Equal(t, domain.ModeCommonJS, res.Mode)
	assert.Equal(t, domain.ModeESM, res.TargetMode)
}

func TestResolver_Relative_Substitution(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/p/a.ts":     ``,
		"/p/b.d.cts":  ``,
		"/p/c.tsx":    ``,
		"/p/dir/x.ts": ``,
	})

	tests := []struct {
		specifier string
		want      string
	}{
		{"./b.cjs", "/p/b.d.cts"},
		{"./c.js", "/p/c.tsx"},
		{"./a.ts", "/p/a.ts"},
		{"../p/dir/x.js", "/p/dir/x.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.specifier, func(t *testing.T) {
			res := f.resolver.Resolve(tt.specifier, "/p/main.ts", node16())
			assert.Equal(t, tt.want, res.Resolved)
		})
	}
}

func TestResolver_Extensionless(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/cjs/util.ts":      ``,
		"/cjs/lib/index.ts": ``,
		"/esm/package.json": `{"type":"module"}`,
		"/esm/util.ts":      ``,
	})

	assert.Equal(t, "/cjs/util.ts", f.resolver.Resolve("./util", "/cjs/main.ts", node16()).Resolved)
	assert.Equal(t, "/cjs/lib/index.ts", f.resolver.Resolve("./lib", "/cjs/main.ts", node16()).Resolved)

	res := f.resolver.Resolve("./util", "/esm/main.ts", node16())
	assert.True(t, res.Failed, "ECMAScript imports need an explicit extension")
}

func TestResolver_FailedLookups(t *testing.T) {
	f := newFixture(t, map[string]string{"/p/main.ts": ``})

	res := f.resolver.Resolve("./missing.js", "/p/main.ts", node16())

	assert.True(t, res.Failed)
	assert.Empty(t, res.Resolved)
	assert.Equal(t, []string{"/p/missing.ts", "/p/missing.tsx", "/p/missing.d.ts"}, res.FailedLookups)
}

func TestResolver_Package_Exports(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/p/node_modules/lib/package.json": `{
			"name": "lib",
			"type": "module",
			"exports": {
				".": {"types": "./dist/index.d.ts", "default": "./dist/index.js"},
				"./feature/*": {"import": "./dist/feature/*.mjs", "require": "./dist/feature/*.cjs"}
			}
		}`,
		"/p/node_modules/lib/dist/index.d.ts":      ``,
		"/p/node_modules/lib/dist/feature/x.d.mts": ``,
		"/p/node_modules/lib/dist/feature/x.d.cts": ``,
		"/p/package.json":                          `{"type":"module"}`,
	})

	res := f.resolver.Resolve("lib", "/p/main.ts", node16())
	assert.Equal(t, "/p/node_modules/lib/dist/index.d.ts", res.Resolved)
	assert.True(t, res.External)
	assert.Equal(t, domain.ModeESM, res.TargetMode, "the package manifest declares type module")
	assert.Contains(t, res.Dependencies, "/p/node_modules/lib/package.json")

	res = f.resolver.Resolve("lib/feature/x", "/p/main.ts", node16())
	assert.Equal(t, "/p/node_modules/lib/dist/feature/x.d.mts", res.Resolved)

	res = f.resolver.Resolve("lib/feature/x", "/p/main.cts", node16())
	assert.Equal(t, "/p/node_modules/lib/dist/feature/x.d.cts", res.Resolved)

	res = f.resolver.Resolve("lib/internal", "/p/main.ts", node16())
	assert.True(t, res.Failed, "exports hide unlisted subpaths")
}

func TestResolver_Package_CustomConditions(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/p/node_modules/lib/package.json": `{"exports": {"custom": "./custom.d.ts", "default": "./index.d.ts"}}`,
		"/p/node_modules/lib/custom.d.ts":  ``,
		"/p/node_modules/lib/index.d.ts":   ``,
	})

	res := f.resolver.Resolve("lib", "/p/main.ts", node16())
	assert.Equal(t, "/p/node_modules/lib/index.d.ts", res.Resolved)

	opts := node16()
	opts.CustomConditions = []string{"custom"}
	res = f.resolver.Resolve("lib", "/p/main.ts", opts)
	assert.Equal(t, "/p/node_modules/lib/custom.d.ts", res.Resolved)
}

func TestResolver_Package_TypesVersions(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/p/node_modules/lib/package.json":  `{"typesVersions": {"*": {"*": ["ts4/*"]}}}`,
		"/p/node_modules/lib/ts4/util.d.ts": ``,
	})

	res := f.resolver.Resolve("lib/util", "/p/main.ts", node16())
	assert.Equal(t, "/p/node_modules/lib/ts4/util.d.ts", res.Resolved)
}

func TestResolver_Package_TypesThenMain(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/p/node_modules/typed/package.json":   `{"types": "./lib/typed.d.ts", "main": "./lib/typed.js"}`,
		"/p/node_modules/typed/lib/typed.d.ts": ``,
		"/p/node_modules/plain/package.json":   `{"main": "./lib/plain.js"}`,
		"/p/node_modules/plain/lib/plain.ts":   ``,
	})

	assert.Equal(t, "/p/node_modules/typed/lib/typed.d.ts", f.resolver.Resolve("typed", "/p/main.ts", node16()).Resolved)
	assert.Equal(t, "/p/node_modules/plain/lib/plain.ts", f.resolver.Resolve("plain", "/p/main.ts", node16()).Resolved)
}

func TestResolver_Package_AncestorsAndTypes(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/node_modules/@types/scope__pkg/index.d.ts": ``,
	})

	res := f.resolver.Resolve("@scope/pkg", "/p/src/main.ts", node16())

	assert.Equal(t, "/node_modules/@types/scope__pkg/index.d.ts", res.Resolved)
	assert.Contains(t, res.FailedLookups, "/p/src/node_modules")
	assert.Contains(t, res.FailedLookups, "/p/node_modules")
}

func TestResolver_Trace(t *testing.T) {
	f := newFixture(t, scenario(`{"name":"app","version":"1.0.0"}`))
	opts := node16()
	opts.TraceResolution = true

	first := f.resolver.Resolve("./fileB.mjs", fileA, opts)
	assert.Equal(t, []string{
		"File '" + root + "/src/package.json' does not exist.",
		"Found 'package.json' at '" + root + "/package.json'.",
		"======== Resolving module './fileB.mjs' from '" + fileA + "'. ========",
		"Module resolution kind is not specified, using 'Node16'.",
		"Resolving in CJS mode with conditions 'node', 'require', 'types'.",
		"Loading module as file / folder, candidate module location '" + root + "/src/fileB.mjs', " +
			"target file types: TypeScript, Declaration.",
		"File name '" + root + "/src/fileB.mjs' has a '.mjs' extension - stripping it.",
		"File '" + fileB + "' exist - use it as a name resolution result.",
		"======== Module name './fileB.mjs' was successfully resolved to '" + fileB + "'. ========",
	}, first.Trace)

	second := f.resolver.Resolve("./fileB.mjs", fileA, opts)
	assert.Equal(t, "File '"+root+"/src/package.json' does not exist according to earlier cached lookups.", second.Trace[0])
	assert.Equal(t, "File '"+root+"/package.json' exists according to earlier cached lookups.", second.Trace[1])

	untraced := f.resolver.Resolve("./fileB.mjs", fileA, node16())
	assert.Empty(t, untraced.Trace)
}
