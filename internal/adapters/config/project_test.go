package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/resolvd/internal/adapters/config"
	"go.trai.ch/resolvd/internal/adapters/fs"
	"go.trai.ch/resolvd/internal/core/domain"
)

func TestProjectLoader_Load(t *testing.T) {
	host := fs.NewMemHost()
	require.NoError(t, host.WriteFile("/p/src/tsconfig.json", []byte(`{
		// comments and trailing commas are accepted
		"compilerOptions": {
			"module": "Node16",
			"moduleResolution": "node16",
			"customConditions": ["development"],
			"traceResolution": true,
		},
		"files": ["fileA.ts", "fileB.mts"],
		"exclude": ["dist"],
	}`)))

	cfg, err := config.NewProjectLoader(host).Load("/p/src/tsconfig.json")
	require.NoError(t, err)

	assert.Equal(t, "/p/src/tsconfig.json", cfg.Path)
	assert.Equal(t, "/p/src", cfg.Dir)
	assert.False(t, cfg.Inferred())
	assert.Equal(t, domain.ModuleNode16, cfg.Options.Module)
	assert.Equal(t, "node16", cfg.Options.ModuleResolution)
	assert.Equal(t, []string{"development"}, cfg.Options.CustomConditions)
	assert.True(t, cfg.Options.TraceResolution)
	assert.Equal(t, []string{"/p/src/fileA.ts", "/p/src/fileB.mts"}, cfg.Files)
	assert.Nil(t, cfg.Include)
	assert.Equal(t, []string{"dist"}, cfg.Exclude)
}

func TestProjectLoader_Load_DefaultInclude(t *testing.T) {
	host := fs.NewMemHost()
	require.NoError(t, host.WriteFile("/p/tsconfig.json", []byte(`{}`)))

	cfg, err := config.NewProjectLoader(host).Load("/p/tsconfig.json")
	require.NoError(t, err)

	assert.Equal(t, domain.ModuleCommonJS, cfg.Options.Module)
	assert.Equal(t, []string{"**/*"}, cfg.Include)
}

func TestProjectLoader_Load_Extends(t *testing.T) {
	host := fs.NewMemHost()
	require.NoError(t, host.WriteFile("/p/tsconfig.base.json", []byte(`{
		"compilerOptions": {"module": "nodenext", "traceResolution": true}
	}`)))
	require.NoError(t, host.WriteFile("/p/app/tsconfig.json", []byte(`{
		"extends": "../tsconfig.base",
		"compilerOptions": {"traceResolution": false}
	}`)))

	cfg, err := config.NewProjectLoader(host).Load("/p/app/tsconfig.json")
	require.NoError(t, err)

	assert.Equal(t, domain.ModuleNodeNext, cfg.Options.Module, "inherited from the base")
	assert.False(t, cfg.Options.TraceResolution, "overridden by the leaf")
}

func TestProjectLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr error
	}{
		{
			name:    "missing",
			files:   map[string]string{},
			wantErr: domain.ErrConfigReadFailed,
		},
		{
			name:    "not an object",
			files:   map[string]string{"/p/tsconfig.json": `[1, 2]`},
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "invalid module",
			files:   map[string]string{"/p/tsconfig.json": `{"compilerOptions": {"module": "amd2"}}`},
			wantErr: domain.ErrInvalidModuleKind,
		},
		{
			name: "circular extends",
			files: map[string]string{
				"/p/tsconfig.json": `{"extends": "./other.json"}`,
				"/p/other.json":    `{"extends": "./tsconfig.json"}`,
			},
			wantErr: domain.ErrConfigParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := fs.NewMemHost()
			for p, content := range tt.files {
				require.NoError(t, host.WriteFile(p, []byte(content)))
			}

			_, err := config.NewProjectLoader(host).Load("/p/tsconfig.json")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProjectLoader_Find(t *testing.T) {
	host := fs.NewMemHost()
	require.NoError(t, host.WriteFile("/p/src/tsconfig.json", []byte(`{}`)))

	loader := config.NewProjectLoader(host)

	assert.Equal(t, "/p/src/tsconfig.json", loader.Find("/p/src/nested/dir"))
	assert.Equal(t, "/p/src/tsconfig.json", loader.Find("/p/src"))
	assert.Empty(t, loader.Find("/p"))
}
