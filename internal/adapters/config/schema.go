package config

// SettingsFile represents the structure of the resolvd.yaml settings file.
type SettingsFile struct {
	Tick              string   `yaml:"tick"`
	CaseSensitive     *bool    `yaml:"caseSensitive"`
	LogFormat         string   `yaml:"logFormat"`
	MaxTickIterations int      `yaml:"maxTickIterations"`
	Ignore            []string `yaml:"ignore"`
}
