package ports

import "go.trai.ch/resolvd/internal/core/domain"

// ProjectLoader loads project configuration files.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ProjectLoader interface {
	// Load reads the project configuration at path.
	Load(path string) (*domain.ProjectConfig, error)
	// Find returns the nearest project configuration file above dir, or an empty string.
	Find(dir string) string
}

// SettingsLoader loads the service settings.
type SettingsLoader interface {
	// Load finds the settings file at or above cwd and merges it over the defaults.
	Load(cwd string) (domain.Settings, error)
}
