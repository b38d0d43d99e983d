package manifest_test

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/resolvd/internal/adapters/manifest"
	"go.trai.ch/resolvd/internal/core/domain"
)

func TestParser_Parse_Fields(t *testing.T) {
	data := []byte(`{
		"name": "lib",
		"version": "2.1.0",
		"type": "module",
		"typings": "./index.d.ts",
		"main": "./index.js",
		"exports": {".": {"types": "./index.d.ts", "import": "./index.mjs"}},
		"typesVersions": {"*": {"*": ["ts4/*"]}},
		"dependencies": {"tslib": "^2.0.0"},
		"devDependencies": {"typescript": "^5.4.0"},
		"peerDependencies": {"react": ">=18"},
		"optionalDependencies": {"fsevents": "*"}
	}`)

	info, err := manifest.NewParser().Parse("/p/node_modules/lib/package.json", data)
	require.NoError(t, err)

	assert.True(t, info.Parseable)
	assert.Equal(t, "/p/node_modules/lib/package.json", info.Path)
	assert.Equal(t, "/p/node_modules/lib", info.Dir)
	assert.Equal(t, "lib", info.Name)
	assert.Equal(t, "2.1.0", info.Version)
	assert.Equal(t, domain.ModuleTypeModule, info.Type)
	assert.Equal(t, "./index.d.ts", info.Types, "typings is used when types is missing")
	assert.Equal(t, "./index.js", info.Main)
	assert.Equal(t, xxhash.Sum64(data), info.Digest)

	exports, ok := info.Exports.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, exports, ".")

	assert.Equal(t, map[string]map[string][]string{"*": {"*": {"ts4/*"}}}, info.TypesVersions)

	assert.True(t, info.Has("tslib", domain.GroupDependencies))
	assert.True(t, info.Has("typescript", domain.GroupDevDependencies))
	assert.True(t, info.Has("react", domain.GroupPeerDependencies))
	assert.True(t, info.Has("fsevents", domain.GroupOptionalDependencies))
}

func TestParser_Parse_TypeField(t *testing.T) {
	tests := []struct {
		name string
		data string
		want domain.ModuleType
	}{
		{name: "module", data: `{"type":"module"}`, want: domain.ModuleTypeModule},
		{name: "commonjs", data: `{"type":"commonjs"}`, want: domain.ModuleTypeCommonJS},
		{name: "missing", data: `{"name":"app","version":"1.0.0"}`, want: domain.ModuleTypeNone},
		{name: "wrong type", data: `{"type":1}`, want: domain.ModuleTypeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := manifest.NewParser().Parse("/p/package.json", []byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.Type)
		})
	}
}

func TestParser_Parse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "invalid json", data: `{"name": `},
		{name: "not an object", data: `["a", "b"]`},
		{name: "empty", data: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := manifest.NewParser().Parse("/p/package.json", []byte(tt.data))
			require.Error(t, err)
			require.ErrorIs(t, err, domain.ErrManifestParseFailed)

			require.NotNil(t, info, "a best-effort info is always returned")
			assert.False(t, info.Parseable)
			assert.Equal(t, "/p", info.Dir)
			assert.Empty(t, info.Name)
		})
	}
}
