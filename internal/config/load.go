package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < overrides.
// An empty path searches the standard locations; a missing file there is
// not an error.
func Load(path string, overrides Overrides) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	overrides.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./geobridge.yaml",
		"./geobridge.toml",
		filepath.Join(ConfigDir(), "config.yaml"),
		filepath.Join(ConfigDir(), "config.toml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "geobridge")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "geobridge")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "geobridge")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "geobridge")
	}
}

// loadFromFile merges a YAML or TOML file into cfg. The format follows the
// file extension; anything but .toml is read as YAML.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isTOML(path) {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
