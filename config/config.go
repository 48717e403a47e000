// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/amoeba/components"
	"github.com/pthm-cable/amoeba/systems"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Body      BodyConfig      `yaml:"body"`
	Steering  SteeringConfig  `yaml:"steering"`
	Feeding   FeedingConfig   `yaml:"feeding"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Effects   EffectsConfig   `yaml:"effects"`
	Weather   WeatherConfig   `yaml:"weather"`
	Loop      LoopConfig      `yaml:"loop"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Seeds     []SeedConfig    `yaml:"seeds"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	TargetFPS int  `yaml:"target_fps"`
	Resizable bool `yaml:"resizable"`
}

// WorldConfig holds the simulation box dimensions.
type WorldConfig struct {
	Width  float64 `yaml:"width"`  // 0 = use screen width
	Height float64 `yaml:"height"` // 0 = use screen height
}

// BodyConfig holds mass-spring mesh constants.
type BodyConfig struct {
	NodeMass           float64 `yaml:"node_mass"`
	NodeRadius         float64 `yaml:"node_radius"`
	PerimeterStiffness float64 `yaml:"perimeter_stiffness"`
	PerimeterDamping   float64 `yaml:"perimeter_damping"`
	DiagonalStiffness  float64 `yaml:"diagonal_stiffness"`
	DiagonalDamping    float64 `yaml:"diagonal_damping"`
	PressureConstant   float64 `yaml:"pressure_constant"`
	Restitution        float64 `yaml:"restitution"` // velocity fraction kept on a wall bounce
	Drag               float64 `yaml:"drag"`        // per-tick velocity multiplier
}

// SteeringConfig holds food-seeking and wander parameters.
type SteeringConfig struct {
	Motility float64 `yaml:"motility"`
	Jitter   float64 `yaml:"jitter"`
}

// FeedingConfig holds growth-on-feeding parameters.
type FeedingConfig struct {
	GrowthRadius    float64 `yaml:"growth_radius"`
	GrowthRestScale float64 `yaml:"growth_rest_scale"`
}

// SpawnConfig holds the temperature-driven food spawn policy.
type SpawnConfig struct {
	BaseChance     float64 `yaml:"base_chance"`     // probability at the reference temperature
	RefTemperature float64 `yaml:"ref_temperature"` // temperature at which base_chance applies
	Floor          float64 `yaml:"floor"`           // minimum temperature factor
}

// EffectsConfig holds feeding splash settings.
type EffectsConfig struct {
	PerBurst int     `yaml:"per_burst"`
	Speed    float64 `yaml:"speed"`
	Life     float64 `yaml:"life"`
	Size     float64 `yaml:"size"`
	Drag     float64 `yaml:"drag"`
}

// WeatherConfig holds the remote temperature feed settings.
type WeatherConfig struct {
	Enabled            bool          `yaml:"enabled"`
	URL                string        `yaml:"url"`
	Latitude           float64       `yaml:"latitude"`
	Longitude          float64       `yaml:"longitude"`
	Interval           time.Duration `yaml:"interval"`
	Timeout            time.Duration `yaml:"timeout"`
	MaxRetries         uint          `yaml:"max_retries"`
	DefaultTemperature float64       `yaml:"default_temperature"`
}

// LoopConfig holds frame loop settings.
type LoopConfig struct {
	DT       float64 `yaml:"dt"`       // fixed step for headless runs
	MaxDT    float64 `yaml:"max_dt"`   // frame time cap
	Substeps int     `yaml:"substeps"` // ticks per frame
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow     float64 `yaml:"stats_window"`
	PerfLogInterval int     `yaml:"perf_log_interval"` // ticks between perf logs (0 = off)
}

// SeedConfig describes a body created at world start.
type SeedConfig struct {
	X      float64 `yaml:"x"` // fraction of world width
	Y      float64 `yaml:"y"` // fraction of world height
	Radius float64 `yaml:"radius"`
	Nodes  int     `yaml:"nodes"`
	Color  string  `yaml:"color"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW float64 // effective world width
	WorldH float64 // effective world height
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
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

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

	cfg.ComputeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ComputeDerived recalculates values derived from the loaded settings.
// Call it again after changing World, Screen or Loop in code.
func (c *Config) ComputeDerived() {
	c.Derived.WorldW = c.World.Width
	if c.Derived.WorldW == 0 {
		c.Derived.WorldW = float64(c.Screen.Width)
	}
	c.Derived.WorldH = c.World.Height
	if c.Derived.WorldH == 0 {
		c.Derived.WorldH = float64(c.Screen.Height)
	}

	if c.Loop.Substeps < 1 {
		c.Loop.Substeps = 1
	}
}

// Validate reports the first setting that would make the simulation ill-formed.
func (c *Config) Validate() error {
	var errs []error
	if c.Derived.WorldW <= 0 || c.Derived.WorldH <= 0 {
		errs = append(errs, fmt.Errorf("world size %vx%v must be positive", c.Derived.WorldW, c.Derived.WorldH))
	}
	if c.Body.NodeMass <= 0 {
		errs = append(errs, fmt.Errorf("body.node_mass %v must be positive", c.Body.NodeMass))
	}
	if c.Body.NodeRadius <= 0 {
		errs = append(errs, fmt.Errorf("body.node_radius %v must be positive", c.Body.NodeRadius))
	}
	if c.Body.Drag <= 0 || c.Body.Drag > 1 {
		errs = append(errs, fmt.Errorf("body.drag %v must be in (0, 1]", c.Body.Drag))
	}
	if c.Body.Restitution < 0 || c.Body.Restitution > 1 {
		errs = append(errs, fmt.Errorf("body.restitution %v must be in [0, 1]", c.Body.Restitution))
	}
	if c.Effects.Drag <= 0 || c.Effects.Drag > 1 {
		errs = append(errs, fmt.Errorf("effects.drag %v must be in (0, 1]", c.Effects.Drag))
	}
	if c.Spawn.RefTemperature == 0 {
		errs = append(errs, errors.New("spawn.ref_temperature must be non-zero"))
	}
	if c.Loop.DT <= 0 {
		errs = append(errs, fmt.Errorf("loop.dt %v must be positive", c.Loop.DT))
	}
	if c.Loop.MaxDT <= 0 {
		errs = append(errs, fmt.Errorf("loop.max_dt %v must be positive", c.Loop.MaxDT))
	}
	if len(c.Seeds) == 0 {
		errs = append(errs, errors.New("at least one seed body is required"))
	}
	for i, s := range c.Seeds {
		if s.Nodes < 3 {
			errs = append(errs, fmt.Errorf("seeds[%d].nodes %d must be at least 3", i, s.Nodes))
		}
		if s.Radius <= 0 {
			errs = append(errs, fmt.Errorf("seeds[%d].radius %v must be positive", i, s.Radius))
		}
		if _, err := components.ParseColor(s.Color); err != nil {
			errs = append(errs, fmt.Errorf("seeds[%d].color: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// BodyParams converts the body section into physics parameters.
func (c *Config) BodyParams() systems.BodyParams {
	b := c.Body
	return systems.BodyParams{
		NodeMass:           b.NodeMass,
		NodeRadius:         b.NodeRadius,
		PerimeterStiffness: b.PerimeterStiffness,
		PerimeterDamping:   b.PerimeterDamping,
		DiagonalStiffness:  b.DiagonalStiffness,
		DiagonalDamping:    b.DiagonalDamping,
		PressureConstant:   b.PressureConstant,
		Restitution:        b.Restitution,
		Drag:               b.Drag,
	}
}

// WorldParams converts the config into world parameters.
// Seed colors are assumed valid (checked by Validate).
func (c *Config) WorldParams() systems.WorldParams {
	seeds := make([]systems.SeedParams, len(c.Seeds))
	for i, s := range c.Seeds {
		color, _ := components.ParseColor(s.Color)
		seeds[i] = systems.SeedParams{X: s.X, Y: s.Y, Radius: s.Radius, Nodes: s.Nodes, Color: color}
	}

	return systems.WorldParams{
		Body:                c.BodyParams(),
		Motility:            c.Steering.Motility,
		Jitter:              c.Steering.Jitter,
		GrowthRadius:        c.Feeding.GrowthRadius,
		GrowthRestScale:     c.Feeding.GrowthRestScale,
		SpawnBase:           c.Spawn.BaseChance,
		SpawnRefTemperature: c.Spawn.RefTemperature,
		SpawnFloor:          c.Spawn.Floor,
		DefaultTemperature:  c.Weather.DefaultTemperature,
		Seeds:               seeds,
	}
}

// EffectParams converts the effects section.
func (c *Config) EffectParams() systems.EffectParams {
	e := c.Effects
	return systems.EffectParams{PerBurst: e.PerBurst, Speed: e.Speed, Life: e.Life, Size: e.Size, Drag: e.Drag}
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
