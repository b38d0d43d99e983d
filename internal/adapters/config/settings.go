// Package config loads the service settings and project configuration files.
package config

import (
	"path"
	"time"

	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.SettingsLoader = (*SettingsLoader)(nil)

// SettingsLoader implements ports.SettingsLoader.
type SettingsLoader struct {
	fs ports.FileSystem
}

// NewSettingsLoader creates a new SettingsLoader.
func NewSettingsLoader(fs ports.FileSystem) *SettingsLoader {
	return &SettingsLoader{fs: fs}
}

// Load finds resolvd.yaml at or above cwd and merges it over domain.DefaultSettings.
// Without a settings file the defaults are returned unchanged.
func (l *SettingsLoader) Load(cwd string) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	configPath := findConfiguration(l.fs, cwd, domain.SettingsFileName)
	if configPath == "" {
		return settings, nil
	}

	var file SettingsFile
	if err := readAndUnmarshalYAML(l.fs, configPath, &file); err != nil {
		return settings, err
	}

	if err := mergeSettings(&settings, &file); err != nil {
		return settings, zerr.With(err, "config_path", configPath)
	}
	return settings, nil
}

func mergeSettings(settings *domain.Settings, file *SettingsFile) error {
	if file.Tick != "" {
		tick, err := time.ParseDuration(file.Tick)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "field", "tick")
		}
		if tick <= 0 {
			return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "tick must be positive"), "field", "tick")
		}
		settings.Tick = tick
	}

	if file.CaseSensitive != nil {
		settings.CaseSensitive = *file.CaseSensitive
	}

	switch file.LogFormat {
	case "":
	case "pretty", "json":
		settings.LogFormat = file.LogFormat
	default:
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "logFormat must be pretty or json"), "field", "logFormat")
	}

	if file.MaxTickIterations < 0 {
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "maxTickIterations must not be negative"),
			"field", "maxTickIterations")
	}
	if file.MaxTickIterations > 0 {
		settings.MaxTickIterations = file.MaxTickIterations
	}

	if file.Ignore != nil {
		settings.Ignore = file.Ignore
	}
	return nil
}

// findConfiguration walks up from startDir looking for name and returns its path, or "".
func findConfiguration(fs ports.FileSystem, startDir, name string) string {
	for dir := range domain.Ancestors(startDir) {
		candidate := path.Join(dir, name)
		if fs.PathExists(candidate) {
			return candidate
		}
	}
	return ""
}

// readAndUnmarshalYAML reads a file and unmarshals it into the target.
func readAndUnmarshalYAML[T any](fs ports.FileSystem, configPath string, target *T) error {
	data, err := fs.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "config_path", configPath)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "config_path", configPath)
	}

	return nil
}
