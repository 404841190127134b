package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath  = "NDRCRAFT_CONFIG"
	EnvMetricsAddr = "NDRCRAFT_METRICS_ADDR"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid value")

// Config is the root of the YAML configuration file.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	World   WorldConfig   `yaml:"world"`
	Camera  CameraConfig  `yaml:"camera"`
	Meshing MeshingConfig `yaml:"meshing"`
	Assets  AssetsConfig  `yaml:"assets"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

type WindowConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Title    string `yaml:"title"`
	VSync    bool   `yaml:"vsync"`
	FPSLimit int    `yaml:"fps_limit"` // 0 = uncapped
}

type WorldConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Depth        int    `yaml:"depth"`
	GroundHeight int    `yaml:"ground_height"`
	Generator    string `yaml:"generator"` // flat | empty | pillars
}

type CameraConfig struct {
	FOVDegrees  float32    `yaml:"fov_degrees"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	Start       [3]float32 `yaml:"start"`
}

type MeshingConfig struct {
	Workers   int `yaml:"workers"` // 0 = half the CPUs
	QueueSize int `yaml:"queue_size"`
}

type AssetsConfig struct {
	Atlas     string `yaml:"atlas"`
	Blocks    string `yaml:"blocks"`
	ShaderDir string `yaml:"shader_dir"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the endpoint
}

type LogConfig struct {
	Debug bool `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1424,
			Height: 720,
			Title:  "NdrCraft",
		},
		World: WorldConfig{
			Width:        100,
			Height:       12,
			Depth:        100,
			GroundHeight: 4,
			Generator:    "flat",
		},
		Camera: CameraConfig{
			FOVDegrees:  70,
			Near:        0.1,
			Far:         1000,
			Speed:       10,
			Sensitivity: 0.0025,
			Start:       [3]float32{0, 4, 20},
		},
		Meshing: MeshingConfig{
			QueueSize: 256,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path falls
// back to $NDRCRAFT_CONFIG; if that is unset too, the defaults are returned.
// $NDRCRAFT_METRICS_ADDR overrides the metrics address either way.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if addr := os.Getenv(EnvMetricsAddr); addr != "" {
		cfg.Metrics.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail deep inside the
// engine.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.FPSLimit < 0:
		return fmt.Errorf("%w: fps_limit %d", ErrInvalid, c.Window.FPSLimit)
	case c.World.Width <= 0 || c.World.Height <= 0 || c.World.Depth <= 0:
		return fmt.Errorf("%w: world size %dx%dx%d", ErrInvalid, c.World.Width, c.World.Height, c.World.Depth)
	case c.World.GroundHeight < 0:
		return fmt.Errorf("%w: ground_height %d", ErrInvalid, c.World.GroundHeight)
	case c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180:
		return fmt.Errorf("%w: fov_degrees %g", ErrInvalid, c.Camera.FOVDegrees)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: clip planes near=%g far=%g", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Camera.Speed < 0:
		return fmt.Errorf("%w: camera speed %g", ErrInvalid, c.Camera.Speed)
	case c.Meshing.Workers < 0 || c.Meshing.QueueSize < 0:
		return fmt.Errorf("%w: meshing workers=%d queue_size=%d", ErrInvalid, c.Meshing.Workers, c.Meshing.QueueSize)
	}
	return nil
}

// MeshWorkers resolves the worker count, defaulting to half the CPUs.
func (m MeshingConfig) MeshWorkers(numCPU int) int {
	if m.Workers > 0 {
		return m.Workers
	}
	return max(numCPU/2, 1)
}
