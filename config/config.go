// Package config provides configuration loading and access for the animator.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Field     FieldConfig     `yaml:"field"`
	Emitters  EmittersConfig  `yaml:"emitters"`
	Sampler   SamplerConfig   `yaml:"sampler"`
	Camera    CameraConfig    `yaml:"camera"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Seed      int64           `yaml:"seed"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// PhysicsConfig holds time stepping parameters.
type PhysicsConfig struct {
	DT    float64 `yaml:"dt"`     // fixed step for headless runs
	MaxDT float64 `yaml:"max_dt"` // frame time clamp for windowed runs
}

// FieldConfig holds the scalar field tunables.
type FieldConfig struct {
	Smoothing    float64 `yaml:"smoothing"`     // smooth-min blend width k
	IsoLevel     float64 `yaml:"iso_level"`     // surface threshold
	VolumeRadius float64 `yaml:"volume_radius"` // half-extent R of the sampled cube
}

// EmittersConfig holds emitter generation parameters.
type EmittersConfig struct {
	Count          int     `yaml:"count"`
	Speed          float64 `yaml:"speed"`           // base speed, distance per second
	TargetRadius   float64 `yaml:"target_radius"`   // mean radius
	RadiusVariance float64 `yaml:"radius_variance"` // relative spread, 0..0.95
}

// SamplerConfig holds triangulation grid parameters.
type SamplerConfig struct {
	CellsPerAxis      int `yaml:"cells_per_axis"`
	Workers           int `yaml:"workers"`            // 0 = GOMAXPROCS
	ParallelThreshold int `yaml:"parallel_threshold"` // cells per axis below which the walk stays sequential
}

// CameraConfig holds orbit camera parameters.
type CameraConfig struct {
	Distance    float64 `yaml:"distance"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	Yaw         float64 `yaml:"yaw"`   // degrees
	Pitch       float64 `yaml:"pitch"` // degrees
	Sensitivity float64 `yaml:"sensitivity"`
	ZoomStep    float64 `yaml:"zoom_step"`
	FOV         float64 `yaml:"fov"`
}

// RenderConfig holds mesh drawing parameters.
type RenderConfig struct {
	ShowBounds   bool       `yaml:"show_bounds"`
	SurfaceColor [3]uint8   `yaml:"surface_color,flow"`
	LightDir     [3]float64 `yaml:"light_dir,flow"`
	Ambient      float64    `yaml:"ambient"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32 // Physics.DT as float32
	ScreenW32    float32 // Screen.Width as float32
	ScreenH32    float32 // Screen.Height as float32
	CellSize     float64 // 2R / cells
	Padding      float64 // R·(0.3 + 3k)
	WanderBounds float64 // R - Padding, at least 0
	Workers      int     // resolved worker count
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks that every tunable is in range.
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"physics.dt", c.Physics.DT},
		{"field.smoothing", c.Field.Smoothing},
		{"field.volume_radius", c.Field.VolumeRadius},
		{"emitters.speed", c.Emitters.Speed},
		{"emitters.target_radius", c.Emitters.TargetRadius},
		{"sampler.cells_per_axis", float64(c.Sampler.CellsPerAxis)},
		{"emitters.count", float64(c.Emitters.Count)},
		{"telemetry.stats_window", c.Telemetry.StatsWindow},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, p.name, p.value)
		}
	}
	if v := c.Emitters.RadiusVariance; v < 0 || v > 0.95 {
		return fmt.Errorf("%w: emitters.radius_variance must be in [0, 0.95], got %v", ErrInvalidConfig, v)
	}
	if math.IsNaN(c.Field.IsoLevel) || math.IsInf(c.Field.IsoLevel, 0) {
		return fmt.Errorf("%w: field.iso_level must be finite", ErrInvalidConfig)
	}
	if c.Sampler.Workers < 0 {
		return fmt.Errorf("%w: sampler.workers must not be negative", ErrInvalidConfig)
	}
	if c.Camera.MinDistance > c.Camera.MaxDistance {
		return fmt.Errorf("%w: camera.min_distance exceeds camera.max_distance", ErrInvalidConfig)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	r, k := c.Field.VolumeRadius, c.Field.Smoothing
	c.Derived.CellSize = 2 * r / float64(c.Sampler.CellsPerAxis)
	c.Derived.Padding = r * (0.3 + 3*k)
	c.Derived.WanderBounds = math.Max(0, r-c.Derived.Padding)

	c.Derived.Workers = c.Sampler.Workers
	if c.Derived.Workers == 0 {
		c.Derived.Workers = runtime.GOMAXPROCS(0)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
