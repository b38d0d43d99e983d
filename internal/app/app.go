// Package app implements the application layer for resolvd.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/resolvd/internal/adapters/fs"
	"go.trai.ch/resolvd/internal/adapters/watcher"
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/resolvd/internal/engine/project"
	"go.trai.ch/resolvd/internal/engine/scheduler"
	"go.trai.ch/resolvd/internal/engine/watch"
	"go.trai.ch/resolvd/internal/ui/output"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// LogSettings is implemented by loggers whose format and level can change at runtime.
type LogSettings interface {
	SetJSON(enable bool)
	SetLevel(level slog.Level)
}

// App represents the main application logic.
type App struct {
	settingsLoader ports.SettingsLoader
	projectLoader  ports.ProjectLoader
	fs             ports.FileSystem
	parser         ports.ManifestParser
	scanner        ports.ImportScanner
	scheduler      *scheduler.Scheduler
	tracer         ports.Tracer
	logger         ports.Logger
	events         ports.EventSink
	logSettings    LogSettings
	newWatcher     ports.FSWatcherFactory

	stdout   io.Writer
	cwd      string
	settings domain.Settings
	json     bool
}

// New creates a new App instance.
func New(
	settingsLoader ports.SettingsLoader,
	projectLoader ports.ProjectLoader,
	host ports.FileSystem,
	parser ports.ManifestParser,
	scanner ports.ImportScanner,
	sched *scheduler.Scheduler,
	tracer ports.Tracer,
	log ports.Logger,
	events ports.EventSink,
	newWatcher ports.FSWatcherFactory,
) *App {
	return &App{
		settingsLoader: settingsLoader,
		projectLoader:  projectLoader,
		fs:             host,
		parser:         parser,
		scanner:        scanner,
		scheduler:      sched,
		tracer:         tracer,
		logger:         log,
		events:         events,
		newWatcher:     newWatcher,
		stdout:         os.Stdout,
		settings:       domain.DefaultSettings(),
	}
}

// WithOutput sets the writer diagnostics are printed to.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithWorkingDir sets the directory relative file arguments and resolvd.yaml discovery start from.
func (a *App) WithWorkingDir(dir string) *App {
	a.cwd = filepath.ToSlash(dir)
	return a
}

// WithLogSettings lets Configure switch the logger format and level.
func (a *App) WithLogSettings(s LogSettings) *App {
	a.logSettings = s
	return a
}

// GlobalOptions are the flags shared by every command.
type GlobalOptions struct {
	JSON    bool
	Verbose bool
	// ConfigDir overrides the directory resolvd.yaml is searched from.
	ConfigDir string
}

// ResolveOptions configuration for the Resolve method.
type ResolveOptions struct {
	// Trace logs the resolution trace of every lookup.
	Trace bool
}

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	// Trace logs the resolution trace of every lookup.
	Trace bool
}

// Settings returns the settings in effect.
func (a *App) Settings() domain.Settings {
	return a.settings
}

// Configure loads resolvd.yaml and applies the global flags to the logger.
// Flags take precedence over the settings file.
func (a *App) Configure(opts GlobalOptions) error {
	cwd, err := a.workingDir()
	if err != nil {
		return err
	}

	dir := cwd
	if opts.ConfigDir != "" {
		dir = a.absolute(cwd, filepath.ToSlash(opts.ConfigDir))
	}

	settings, err := a.settingsLoader.Load(dir)
	if err != nil {
		return zerr.Wrap(err, "failed to load settings")
	}
	a.settings = settings
	a.json = opts.JSON || settings.LogFormat == "json"

	if a.logSettings != nil {
		a.logSettings.SetJSON(a.json)
		if opts.Verbose {
			a.logSettings.SetLevel(slog.LevelDebug)
		}
	}
	return nil
}

// Resolve opens files, reports their diagnostics and returns ErrDiagnosticsReported
// when any of them is an error.
func (a *App) Resolve(ctx context.Context, files []string, opts ResolveOptions) error {
	if len(files) == 0 {
		return domain.ErrNoFilesSpecified
	}

	paths, err := a.absolutePaths(files)
	if err != nil {
		return err
	}

	// One-shot runs record watches without creating OS watches.
	fsw := watcher.NewMemWatcher()
	defer func() { _ = fsw.Close() }()

	canon := fs.NewCanonicalizer(a.settings.CaseSensitive)
	svc := a.newService(canon, watch.NewRegistry(fsw, canon), opts.Trace, nil)
	defer svc.Close()

	var all []domain.Diagnostic
	for _, file := range paths {
		diags, err := svc.OpenFile(ctx, canon.ToCanonicalPath(file))
		if err != nil {
			return err
		}
		all = append(all, diags...)
	}

	if err := a.report(all); err != nil {
		return err
	}
	if hasErrors(all) {
		return domain.ErrDiagnosticsReported
	}
	return nil
}

// Watch opens files and keeps their diagnostics current until ctx is done.
//
// One goroutine pumps OS watcher events into the event loop. The loop dispatches
// them to the watch registry, arms the debouncer and runs due tasks when the quiet
// window closes, so all service state is touched from a single goroutine.
func (a *App) Watch(ctx context.Context, files []string, opts WatchOptions) error {
	if len(files) == 0 {
		return domain.ErrNoFilesSpecified
	}

	paths, err := a.absolutePaths(files)
	if err != nil {
		return err
	}

	fsw, err := a.newWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fsw.Close() }()

	canon := fs.NewCanonicalizer(a.settings.CaseSensitive)
	registry := watch.NewRegistry(fsw, canon)

	// The service reports refreshed diagnostics from OpenFile and from task runs,
	// both on the goroutine that owns it.
	var reportErr error
	svc := a.newService(canon, registry, opts.Trace, func(_ string, diags []domain.Diagnostic) {
		if err := a.report(diags); err != nil {
			reportErr = err
		}
	})
	defer svc.Close()

	for _, file := range paths {
		if _, err := svc.OpenFile(ctx, canon.ToCanonicalPath(file)); err != nil {
			return err
		}
	}
	if reportErr != nil {
		return reportErr
	}
	a.logger.Info("watching " + strings.Join(a.displayPaths(paths), ", "))

	ticks := make(chan struct{}, 1)
	arm := func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	}
	debouncer := watcher.NewDebouncer(a.settings.Tick, func(_ []string) { arm() })
	defer debouncer.Stop()

	events := make(chan ports.WatchEvent)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case event, ok := <-fsw.Events():
				if !ok {
					if gctx.Err() != nil {
						return nil
					}
					return domain.ErrWatcherClosed
				}
				select {
				case events <- event:
				case <-gctx.Done():
					return nil
				}
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case event := <-events:
				if registry.Dispatch(event) > 0 {
					debouncer.Add(event.Path)
				}
			case <-ticks:
				if _, err := svc.RunDue(gctx); err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					a.logger.Error(err)
				}
				if reportErr != nil {
					return reportErr
				}
				if svc.HasPending() {
					arm()
				}
			}
		}
	})

	return g.Wait()
}

func (a *App) newService(
	canon ports.PathCanonicalizer,
	watches ports.WatchHost,
	trace bool,
	onDiagnostics project.DiagnosticsFunc,
) *project.Service {
	return project.NewService(project.Options{
		FS:                a.fs,
		Canonicalizer:     canon,
		Parser:            a.parser,
		Loader:            a.projectLoader,
		Scanner:           a.scanner,
		Watches:           watches,
		Scheduler:         a.scheduler,
		Tracer:            a.tracer,
		Logger:            a.logger,
		Events:            a.events,
		Ignore:            a.settings.Ignore,
		MaxTickIterations: a.settings.MaxTickIterations,
		TraceResolution:   trace,
		OnDiagnostics:     onDiagnostics,
	})
}

// report prints diagnostics with file paths shown relative to the working directory.
func (a *App) report(diags []domain.Diagnostic) error {
	shown := make([]domain.Diagnostic, len(diags))
	for i, d := range diags {
		d.File = a.displayPath(d.File)
		shown[i] = d
	}

	if a.json {
		return output.WriteDiagnosticsJSON(a.stdout, shown)
	}
	return output.WriteDiagnostics(output.New(a.stdout), shown)
}

func (a *App) workingDir() (string, error) {
	if a.cwd != "" {
		return a.cwd, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get working directory")
	}
	a.cwd = filepath.ToSlash(wd)
	return a.cwd, nil
}

func (a *App) absolutePaths(files []string) ([]string, error) {
	cwd, err := a.workingDir()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, a.absolute(cwd, filepath.ToSlash(f)))
	}
	return paths, nil
}

func (a *App) absolute(cwd, p string) string {
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(cwd, p)
}

func (a *App) displayPath(p string) string {
	if a.cwd == "" {
		return p
	}
	if rel, ok := strings.CutPrefix(p, a.cwd+"/"); ok {
		return rel
	}
	return p
}

func (a *App) displayPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = a.displayPath(p)
	}
	return out
}

func hasErrors(diags []domain.Diagnostic) bool {
	return slices.ContainsFunc(diags, func(d domain.Diagnostic) bool {
		return d.Category == domain.CategoryError
	})
}
