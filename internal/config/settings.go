package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/prehook/prehook/internal/paths"
)

// AppName is the application name used for settings file naming.
const AppName = "prehook"

// Settings represents prehook's own tool settings, distinct from the hook
// configuration file checked into a project.
type Settings struct {
	Version  int    `mapstructure:"version" yaml:"version"`
	Jobs     int    `mapstructure:"jobs" yaml:"jobs"`
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`
	Color    string `mapstructure:"color" yaml:"color"`
}

// Init initializes Viper with default settings.
// Call this once at application startup before accessing settings values.
func Init() {
	viper.SetConfigName("settings")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), AppName))

	// Environment variable support
	viper.SetEnvPrefix("PREHOOK")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("jobs", runtime.NumCPU())
	viper.SetDefault("cache_dir", paths.ReposCacheDir())
	viper.SetDefault("color", "auto")
}

// LoadSettings reads the settings file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded settings or default values if no file is found (when path is empty).
func LoadSettings(path string) (*Settings, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("settings file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading settings file: %w", err)
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}

	if s.Jobs <= 0 {
		s.Jobs = runtime.NumCPU()
	}

	return &s, nil
}
