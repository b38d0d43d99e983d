package config

import (
	"path"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/sen"
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ProjectLoader = (*ProjectLoader)(nil)

var (
	extendsX          = jp.MustParseString("$.extends")
	moduleX           = jp.MustParseString("$.compilerOptions.module")
	moduleResolutionX = jp.MustParseString("$.compilerOptions.moduleResolution")
	customConditionsX = jp.MustParseString("$.compilerOptions.customConditions")
	traceResolutionX  = jp.MustParseString("$.compilerOptions.traceResolution")
	filesX            = jp.MustParseString("$.files")
	includeX          = jp.MustParseString("$.include")
	excludeX          = jp.MustParseString("$.exclude")
)

// defaultInclude is used when a configuration lists neither files nor include.
var defaultInclude = []string{"**/*"}

// ProjectLoader implements ports.ProjectLoader for tsconfig.json files.
// Files are parsed with the SEN parser, which accepts comments and trailing commas.
type ProjectLoader struct {
	fs ports.FileSystem
}

// NewProjectLoader creates a new ProjectLoader.
func NewProjectLoader(fs ports.FileSystem) *ProjectLoader {
	return &ProjectLoader{fs: fs}
}

// Find returns the nearest tsconfig.json at or above dir, or an empty string.
func (l *ProjectLoader) Find(dir string) string {
	return findConfiguration(l.fs, dir, domain.ProjectConfigFileName)
}

// Load reads the configuration at configPath, following relative "extends" chains.
// Options of the extending file win over the base.
func (l *ProjectLoader) Load(configPath string) (*domain.ProjectConfig, error) {
	cfg := &domain.ProjectConfig{
		Path:    configPath,
		Dir:     domain.DirOf(configPath),
		Options: domain.CompilerOptions{Module: domain.ModuleCommonJS},
	}

	layers, err := l.readChain(configPath)
	if err != nil {
		return nil, err
	}

	// Apply the base first so the leaf overrides it.
	for i := len(layers) - 1; i >= 0; i-- {
		if err := applyLayer(cfg, layers[i]); err != nil {
			return nil, zerr.With(err, "config_path", layers[i].path)
		}
	}

	if len(cfg.Files) == 0 && cfg.Include == nil {
		cfg.Include = defaultInclude
	}
	return cfg, nil
}

type layer struct {
	path string
	doc  any
}

func (l *ProjectLoader) readChain(configPath string) ([]layer, error) {
	var layers []layer
	seen := make(map[string]bool)

	current := configPath
	for current != "" {
		if seen[current] {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "circular extends"), "config_path", current)
		}
		seen[current] = true

		doc, err := l.read(current)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer{path: current, doc: doc})

		current = extendsPath(current, doc)
	}
	return layers, nil
}

func (l *ProjectLoader) read(configPath string) (any, error) {
	data, err := l.fs.ReadFile(configPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "config_path", configPath)
	}

	doc, err := sen.Parse(data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "config_path", configPath)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "configuration is not an object"),
			"config_path", configPath)
	}
	return doc, nil
}

// extendsPath returns the base configuration of a relative "extends", or "".
// Package references are not followed.
func extendsPath(configPath string, doc any) string {
	base, _ := extendsX.First(doc).(string)
	if base == "" {
		return ""
	}
	if !strings.HasPrefix(base, "./") && !strings.HasPrefix(base, "../") && !path.IsAbs(base) {
		return ""
	}
	if !path.IsAbs(base) {
		base = path.Join(domain.DirOf(configPath), base)
	}
	if path.Ext(base) != ".json" {
		base += ".json"
	}
	return base
}

func applyLayer(cfg *domain.ProjectConfig, l layer) error {
	doc := l.doc
	dir := domain.DirOf(l.path)

	if module, ok := moduleX.First(doc).(string); ok {
		kind, err := domain.ParseModuleKind(module)
		if err != nil {
			return err
		}
		cfg.Options.Module = kind
	}
	if resolution, ok := moduleResolutionX.First(doc).(string); ok {
		cfg.Options.ModuleResolution = resolution
	}
	if conditions, ok := stringList(customConditionsX.First(doc)); ok {
		cfg.Options.CustomConditions = conditions
	}
	if trace, ok := traceResolutionX.First(doc).(bool); ok {
		cfg.Options.TraceResolution = trace
	}

	if files, ok := stringList(filesX.First(doc)); ok {
		cfg.Files = make([]string, 0, len(files))
		for _, f := range files {
			cfg.Files = append(cfg.Files, path.Join(dir, f))
		}
	}
	if include, ok := stringList(includeX.First(doc)); ok {
		cfg.Include = include
	}
	if exclude, ok := stringList(excludeX.First(doc)); ok {
		cfg.Exclude = exclude
	}
	return nil
}

func stringList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}
