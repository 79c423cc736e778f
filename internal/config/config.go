// Package config handles geobridge configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Engine  EngineConfig  `yaml:"engine" toml:"engine"`
	Kernel  KernelConfig  `yaml:"kernel" toml:"kernel"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level" toml:"level"`
	Format     string `yaml:"format" toml:"format"` // console or json
	File       string `yaml:"file" toml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

// EngineConfig holds procedural evaluation settings.
type EngineConfig struct {
	Timeout string  `yaml:"timeout" toml:"timeout"` // Go duration, e.g. "5s"
	FPS     float64 `yaml:"fps" toml:"fps"`
	Frame   float64 `yaml:"frame" toml:"frame"`
}

// KernelConfig holds solid tessellation settings.
type KernelConfig struct {
	Backend   string `yaml:"backend" toml:"backend"`       // sdfx or manifold
	MeshCells int    `yaml:"mesh_cells" toml:"mesh_cells"` // marching cubes cells on the longest axis
	Segments  int    `yaml:"segments" toml:"segments"`     // manifold facets per circle, 0 for default
}

// OutputConfig holds how translated prims are reported.
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"` // text or yaml
	Name   string `yaml:"name" toml:"name"`     // engine output to translate
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Engine: EngineConfig{
			Timeout: "5s",
			FPS:     24,
		},
		Kernel: KernelConfig{
			Backend:   "sdfx",
			MeshCells: 200,
		},
		Output: OutputConfig{
			Format: "text",
			Name:   "out",
		},
	}
}

// EvalTimeout returns the parsed engine timeout.
func (c *Config) EvalTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Engine.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: engine.timeout: %w", err)
	}
	return d, nil
}

// Time returns the evaluation time in seconds for the configured frame.
func (c *Config) Time() float64 {
	if c.Engine.FPS <= 0 {
		return 0
	}
	return c.Engine.Frame / c.Engine.FPS
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if d, err := c.EvalTimeout(); err != nil {
		errs = append(errs, err)
	} else if d <= 0 {
		errs = append(errs, fmt.Errorf("config: engine.timeout must be positive, got %s", d))
	}
	if c.Engine.FPS <= 0 {
		errs = append(errs, fmt.Errorf("config: engine.fps must be positive, got %g", c.Engine.FPS))
	}
	switch c.Kernel.Backend {
	case "sdfx", "manifold":
	default:
		errs = append(errs, fmt.Errorf("config: unknown kernel.backend %q", c.Kernel.Backend))
	}
	if c.Kernel.Segments < 0 {
		errs = append(errs, fmt.Errorf("config: kernel.segments must not be negative, got %d", c.Kernel.Segments))
	}
	if c.Kernel.MeshCells <= 0 {
		errs = append(errs, fmt.Errorf("config: kernel.mesh_cells must be positive, got %d", c.Kernel.MeshCells))
	}
	switch c.Output.Format {
	case "text", "yaml":
	default:
		errs = append(errs, fmt.Errorf("config: unknown output.format %q", c.Output.Format))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("config: unknown logging.format %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// Overrides carries command-line values that take priority over the file.
// Zero values leave the loaded setting untouched.
type Overrides struct {
	LogLevel string
	LogFile  string
	Format   string
	Output   string
	Frame    *float64
}

// Apply copies every set override into c.
func (o Overrides) Apply(c *Config) {
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFile != "" {
		c.Logging.File = o.LogFile
	}
	if o.Format != "" {
		c.Output.Format = o.Format
	}
	if o.Output != "" {
		c.Output.Name = o.Output
	}
	if o.Frame != nil {
		c.Engine.Frame = *o.Frame
	}
}
