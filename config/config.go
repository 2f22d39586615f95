// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/collide/components"
	"github.com/pthm-cable/collide/systems"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Particles ParticlesConfig `yaml:"particles"`
	Workers   WorkersConfig   `yaml:"workers"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Emitters  []EmitterConfig `yaml:"emitters"`
	Kick      KickConfig      `yaml:"kick"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation domain dimensions.
type WorldConfig struct {
	Width  int `yaml:"width"`  // Domain width in world units (0 = use screen width)
	Height int `yaml:"height"` // Domain height in world units (0 = use screen height)
}

// ParticlesConfig holds the initial population and its seed layout.
type ParticlesConfig struct {
	Count           int        `yaml:"count"`
	Max             int        `yaml:"max"` // Arena capacity including spawned particles (0 = count)
	Radius          float64    `yaml:"radius"`
	SeedTop         float64    `yaml:"seed_top"`       // y of the first raster row
	SpacingFactor   float64    `yaml:"spacing_factor"` // raster pitch as a multiple of radius
	InitialVelocity [2]float64 `yaml:"initial_velocity"`
	Color           [4]float64 `yaml:"color"` // RGBA in [0,1]
}

// WorkersConfig holds worker pool settings.
type WorkersConfig struct {
	Count int `yaml:"count"` // 0 = GOMAXPROCS
}

// IngestConfig holds ingest buffer settings.
type IngestConfig struct {
	Capacity int `yaml:"capacity"`
}

// EmitterConfig defines a particle source on the input side.
type EmitterConfig struct {
	Name      string     `yaml:"name"`
	X         float64    `yaml:"x"`
	Y         float64    `yaml:"y"`
	Interval  int        `yaml:"interval"`  // frames between bursts
	Burst     int        `yaml:"burst"`     // particles per burst
	Remaining int        `yaml:"remaining"` // total to emit (-1 = unlimited)
	Speed     float64    `yaml:"speed"`
	Heading   float64    `yaml:"heading"` // degrees; 0 = +x, 90 = +y
	Spread    float64    `yaml:"spread"`  // degrees either side of heading
	Color     [4]float64 `yaml:"color"`
	Enabled   bool       `yaml:"enabled"`
}

// KickConfig controls the random velocity kick triggered from the UI.
type KickConfig struct {
	Fraction float64 `yaml:"fraction"` // share of particles kicked
	Speed    float64 `yaml:"speed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // frames per stats window
	PerfWindow  int `yaml:"perf_window"`  // frames in the rolling perf window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW32 float32 // Effective world width as float32
	WorldH32 float32 // Effective world height as float32
	Workers  int     // Effective worker count
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
// If path is empty, only embedded defaults are used. The result is validated.
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

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)

	c.Derived.Workers = c.Workers.Count
	if c.Derived.Workers <= 0 {
		c.Derived.Workers = runtime.GOMAXPROCS(0)
	}
}

// Validate checks everything that must hold before the first frame runs.
func (c *Config) Validate() error {
	if err := c.SimWorld().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Telemetry.StatsWindow < 0 || c.Telemetry.PerfWindow < 0 {
		return fmt.Errorf("invalid config: telemetry windows must not be negative")
	}
	return nil
}

// SimWorld builds the simulation core's configuration.
func (c *Config) SimWorld() systems.WorldConfig {
	p := c.Particles
	return systems.WorldConfig{
		Width:          c.Derived.WorldW32,
		Height:         c.Derived.WorldH32,
		Radius:         float32(p.Radius),
		Count:          p.Count,
		MaxParticles:   p.Max,
		IngestCapacity: c.Ingest.Capacity,
		Seed: systems.SeedConfig{
			Top:           float32(p.SeedTop),
			SpacingFactor: float32(p.SpacingFactor),
			Velocity:      components.Vec2{X: float32(p.InitialVelocity[0]), Y: float32(p.InitialVelocity[1])},
			Color:         ColorOf(p.Color),
		},
	}
}

// ColorOf converts a [0,1] RGBA quadruple from YAML.
func ColorOf(c [4]float64) components.Color {
	return components.ColorFromFloats(float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3]))
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
