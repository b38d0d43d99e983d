package app_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/resolvd/internal/adapters/config"
	"go.trai.ch/resolvd/internal/adapters/events"
	"go.trai.ch/resolvd/internal/adapters/fs"
	"go.trai.ch/resolvd/internal/adapters/imports"
	"go.trai.ch/resolvd/internal/adapters/logger"
	"go.trai.ch/resolvd/internal/adapters/manifest"
	"go.trai.ch/resolvd/internal/adapters/telemetry"
	"go.trai.ch/resolvd/internal/adapters/watcher"
	"go.trai.ch/resolvd/internal/app"
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/resolvd/internal/engine/scheduler"
)

const (
	root         = "/user/username/projects/myproject"
	manifestPath = root + "/package.json"
	configPath   = root + "/src/tsconfig.json"
	fileA        = root + "/src/fileA.ts"
	fileB        = root + "/src/fileB.mts"

	withType    = `{"name":"app","version":"1.0.0","type":"module"}`
	withoutType = `{"name":"app","version":"1.0.0"}`
)

func scenario(manifest string) map[string]string {
	return map[string]string{
		configPath:   `{"compilerOptions": {"module": "node16"}}`,
		manifestPath: manifest,
		fileA:        "import { foo } from \"./fileB.mjs\";\nfoo();\n",
		fileB:        "export function foo() {}\n",
	}
}

type fixture struct {
	app    *app.App
	host   *fs.Host
	fsw    *watcher.MemWatcher
	events *events.Recorder
	out    *bytes.Buffer
	logs   *fakeLogSettings
}

type fakeLogSettings struct {
	json  bool
	level slog.Level
}

func (f *fakeLogSettings) SetJSON(enable bool)       { f.json = enable }
func (f *fakeLogSettings) SetLevel(level slog.Level) { f.level = level }

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	host := fs.NewMemHost()
	for p, content := range files {
		require.NoError(t, host.WriteFile(p, []byte(content)))
	}

	log := logger.New()
	log.SetOutput(io.Discard)

	f := &fixture{
		host:   host,
		fsw:    watcher.NewMemWatcher(),
		events: events.NewRecorder(),
		out:    &bytes.Buffer{},
		logs:   &fakeLogSettings{level: slog.LevelInfo},
	}

	tracer := telemetry.NewNoOpTracer()
	f.app = app.New(
		config.NewSettingsLoader(host),
		config.NewProjectLoader(host),
		host,
		manifest.NewParser(),
		imports.NewScanner(),
		scheduler.NewScheduler(tracer, f.events),
		tracer,
		log,
		f.events,
		func() (ports.FSWatcher, error) { return f.fsw, nil },
	).WithOutput(f.out).WithWorkingDir(root).WithLogSettings(f.logs)

	return f
}

func TestApp_Resolve_ReportsCommonJSImportOfESM(t *testing.T) {
	f := newFixture(t, scenario(withoutType))

	err := f.app.Resolve(t.Context(), []string{"src/fileA.ts"}, app.ResolveOptions{})
	require.ErrorIs(t, err, domain.ErrDiagnosticsReported)

	out := f.out.String()
	assert.Contains(t, out, "src/fileA.ts:1:21 - error TS1479: The current file is a CommonJS module")
	assert.Contains(t, out, "✗ found 1 error")
	assert.NotContains(t, out, root, "paths are shown relative to the working directory")
}

func TestApp_Resolve_Clean(t *testing.T) {
	f := newFixture(t, scenario(withType))

	err := f.app.Resolve(t.Context(), []string{fileA}, app.ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "✓ no problems found\n", f.out.String())
}

func TestApp_Resolve_Errors(t *testing.T) {
	f := newFixture(t, scenario(withType))

	err := f.app.Resolve(t.Context(), nil, app.ResolveOptions{})
	require.ErrorIs(t, err, domain.ErrNoFilesSpecified)

	err = f.app.Resolve(t.Context(), []string{"src/missing.ts"}, app.ResolveOptions{})
	require.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestApp_Resolve_DoesNotCreateWatches(t *testing.T) {
	f := newFixture(t, scenario(withType))

	require.NoError(t, f.app.Resolve(t.Context(), []string{fileA}, app.ResolveOptions{}))
	assert.Empty(t, f.fsw.Watched(), "one-shot runs never ask for the OS watcher")
}

func TestApp_Configure(t *testing.T) {
	files := scenario(withoutType)
	files[root+"/resolvd.yaml"] = "tick: 50ms\nlogFormat: json\nmaxTickIterations: 8\n"
	f := newFixture(t, files)

	require.NoError(t, f.app.Configure(app.GlobalOptions{Verbose: true}))

	settings := f.app.Settings()
	assert.Equal(t, 50*time.Millisecond, settings.Tick)
	assert.Equal(t, 8, settings.MaxTickIterations)
	assert.True(t, f.logs.json, "logFormat json switches the logger")
	assert.Equal(t, slog.LevelDebug, f.logs.level)

	err := f.app.Resolve(t.Context(), []string{"src/fileA.ts"}, app.ResolveOptions{})
	require.ErrorIs(t, err, domain.ErrDiagnosticsReported)
	assert.Contains(t, f.out.String(), `"code":1479`)
	assert.Contains(t, f.out.String(), `"file":"src/fileA.ts"`)
}

func TestApp_Configure_ConfigDir(t *testing.T) {
	files := scenario(withType)
	files["/etc/resolvd/resolvd.yaml"] = "tick: 2s\n"
	f := newFixture(t, files)

	require.NoError(t, f.app.Configure(app.GlobalOptions{ConfigDir: "/etc/resolvd"}))
	assert.Equal(t, 2*time.Second, f.app.Settings().Tick)
	assert.False(t, f.logs.json)
	assert.Equal(t, slog.LevelInfo, f.logs.level)
}

func TestApp_Configure_InvalidSettings(t *testing.T) {
	files := scenario(withType)
	files[root+"/resolvd.yaml"] = "tick: soon\n"
	f := newFixture(t, files)

	err := f.app.Configure(app.GlobalOptions{})
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestApp_Watch_PackageJSONEdit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, scenario(withoutType))

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() {
			done <- f.app.Watch(ctx, []string{"src/fileA.ts"}, app.WatchOptions{})
		}()

		synctest.Wait()
		assert.Contains(t, f.out.String(), "error TS1479")
		assert.Contains(t, f.fsw.Watched(), root, "the manifest directory is watched")
		f.out.Reset()

		require.NoError(t, f.host.WriteFile(manifestPath, []byte(withType)))
		require.True(t, f.fsw.Send(ports.WatchEvent{Path: manifestPath, Operation: ports.OpWrite}))
		require.True(t, f.fsw.Send(ports.WatchEvent{Path: manifestPath, Operation: ports.OpWrite}))

		time.Sleep(domain.DefaultTick / 2)
		synctest.Wait()
		assert.Empty(t, f.out.String(), "nothing runs before the quiet window closes")

		time.Sleep(domain.DefaultTick)
		synctest.Wait()
		assert.Equal(t, "✓ no problems found\n", f.out.String())
		assert.GreaterOrEqual(t, f.events.Count(domain.EventTaskCoalesced), 1, "two writes queue one invalidation")

		cancel()
		require.NoError(t, <-done)
	})
}

func TestApp_Watch_WatcherClosed(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, scenario(withType))

		done := make(chan error, 1)
		go func() {
			done <- f.app.Watch(t.Context(), []string{fileA}, app.WatchOptions{})
		}()

		synctest.Wait()
		require.NoError(t, f.fsw.Close())

		require.ErrorIs(t, <-done, domain.ErrWatcherClosed)
	})
}

func TestApp_Watch_NoFiles(t *testing.T) {
	f := newFixture(t, scenario(withType))

	err := f.app.Watch(t.Context(), nil, app.WatchOptions{})
	require.ErrorIs(t, err, domain.ErrNoFilesSpecified)
}
