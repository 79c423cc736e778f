package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// SaveTo writes the config to path, as TOML when the extension is .toml
// and as YAML otherwise.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
