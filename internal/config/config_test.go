package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "sdfx", cfg.Kernel.Backend)
	assert.Equal(t, 200, cfg.Kernel.MeshCells)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "out", cfg.Output.Name)
	assert.NoError(t, cfg.Validate())

	d, err := cfg.EvalTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geobridge.yaml")
	content := `
logging:
  level: debug
engine:
  timeout: 250ms
  frame: 12
kernel:
  mesh_cells: 64
output:
  format: yaml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 64, cfg.Kernel.MeshCells)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, 0.5, cfg.Time())
	d, _ := cfg.EvalTimeout()
	assert.Equal(t, 250*time.Millisecond, d)

	// Unset values keep their defaults.
	assert.Equal(t, "sdfx", cfg.Kernel.Backend)
	assert.Equal(t, 50, cfg.Logging.MaxSizeMB)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geobridge.toml")
	content := `
[engine]
fps = 30.0
frame = 15.0

[output]
name = "instances"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.Engine.FPS)
	assert.Equal(t, "instances", cfg.Output.Name)
	assert.Equal(t, 0.5, cfg.Time())
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geobridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644))

	frame := 48.0
	cfg, err := Load(path, Overrides{LogLevel: "error", Format: "yaml", Output: "curves", Frame: &frame})
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, "curves", cfg.Output.Name)
	assert.Equal(t, 2.0, cfg.Time())
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [unclosed"), 0644))

	_, err := Load(path, Overrides{})
	assert.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), Overrides{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geobridge.yaml")
	content := "engine:\n  timeout: soon\nkernel:\n  mesh_cells: 0\noutput:\n  format: xml\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path, Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine.timeout")
	assert.Contains(t, err.Error(), "mesh_cells")
	assert.Contains(t, err.Error(), "output.format")
}

func TestValidateKernelBackend(t *testing.T) {
	cfg := Default()
	cfg.Kernel.Backend = "manifold"
	assert.NoError(t, cfg.Validate())

	cfg.Kernel.Backend = "cgal"
	cfg.Kernel.Segments = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kernel.backend")
	assert.Contains(t, err.Error(), "kernel.segments")
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Kernel.MeshCells = 96
	cfg.Output.Name = "shapes"

	for _, name := range []string{"sub/config.yaml", "sub/config.toml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, cfg.SaveTo(path))

		loaded, err := Load(path, Overrides{})
		require.NoError(t, err, name)
		assert.Equal(t, cfg, loaded, name)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir := ConfigDir()
	assert.NotEmpty(t, dir)
	assert.Contains(t, dir, "geobridge")
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Chdir(dir)

	assert.Equal(t, "", findConfigFile())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "geobridge.toml"), []byte(""), 0644))
	assert.Equal(t, "./geobridge.toml", findConfigFile())
}
