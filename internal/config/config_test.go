package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ndrcraft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1424, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.False(t, cfg.Window.VSync)
	assert.Equal(t, 100, cfg.World.Width)
	assert.Equal(t, 12, cfg.World.Height)
	assert.Equal(t, 100, cfg.World.Depth)
	assert.Equal(t, "flat", cfg.World.Generator)
	assert.Equal(t, float32(70), cfg.Camera.FOVDegrees)
	assert.Equal(t, 256, cfg.Meshing.QueueSize)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadWithoutPathUsesDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvMetricsAddr, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	t.Setenv(EnvMetricsAddr, "")
	path := writeConfig(t, `
window:
  vsync: true
  fps_limit: 144
world:
  generator: pillars
camera:
  start: [1, 2, 3]
meshing:
  workers: 3
log:
  debug: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Window.VSync)
	assert.Equal(t, 144, cfg.Window.FPSLimit)
	assert.Equal(t, 1424, cfg.Window.Width, "unset fields keep their defaults")
	assert.Equal(t, "pillars", cfg.World.Generator)
	assert.Equal(t, 100, cfg.World.Width)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Camera.Start)
	assert.Equal(t, 3, cfg.Meshing.MeshWorkers(16))
	assert.True(t, cfg.Log.Debug)
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "world:\n  ground_height: 7\n")
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvMetricsAddr, ":2112")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.World.GroundHeight)
	assert.Equal(t, ":2112", cfg.Metrics.Addr)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvMetricsAddr, "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "window: [oops"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "camera:\n  near: 10\n  far: 5\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"zero window", func(c *Config) { c.Window.Width = 0 }},
		{"negative fps", func(c *Config) { c.Window.FPSLimit = -1 }},
		{"zero world", func(c *Config) { c.World.Depth = 0 }},
		{"negative ground", func(c *Config) { c.World.GroundHeight = -1 }},
		{"zero fov", func(c *Config) { c.Camera.FOVDegrees = 0 }},
		{"flat fov", func(c *Config) { c.Camera.FOVDegrees = 180 }},
		{"zero near", func(c *Config) { c.Camera.Near = 0 }},
		{"far equals near", func(c *Config) { c.Camera.Far = c.Camera.Near }},
		{"negative speed", func(c *Config) { c.Camera.Speed = -1 }},
		{"negative workers", func(c *Config) { c.Meshing.Workers = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestMeshWorkers(t *testing.T) {
	assert.Equal(t, 4, MeshingConfig{}.MeshWorkers(8))
	assert.Equal(t, 1, MeshingConfig{}.MeshWorkers(1))
	assert.Equal(t, 2, MeshingConfig{Workers: 2}.MeshWorkers(64))
}

func TestRuntimeSettings(t *testing.T) {
	defer SetFPSLimit(0)
	defer SetVSync(false)

	cfg := Default()
	cfg.Window.FPSLimit = 60
	cfg.Window.VSync = true
	Apply(cfg)
	assert.Equal(t, 60, GetFPSLimit())
	assert.True(t, GetVSync())

	SetFPSLimit(-5)
	assert.Equal(t, 0, GetFPSLimit())
}
