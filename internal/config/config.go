package config

import (
	"os"
	"time"

	"github.com/dmfiel/game-of-life/internal/life"
	"gopkg.in/yaml.v3"
)

const (
	MinSize            = 10
	MaxSize            = 200
	DefaultSize        = 50
	MinIntervalMs      = 1
	MaxIntervalMs      = 1000
	DefaultIntervalMs  = 10
	DefaultDensity     = 0.2
	DefaultWindow      = life.DefaultWindow
	MaxWindow          = 64
	DefaultResetDelay  = 500
	DefaultGenerations = 1000
	DefaultPattern     = RandomPattern
)

type Config struct {
	GridSize     int     `yaml:"grid_size"`
	Wrap         bool    `yaml:"wrap"`
	AutoReset    bool    `yaml:"auto_reset"`
	IntervalMs   int     `yaml:"interval_ms"`
	Density      float64 `yaml:"density"`
	Window       int     `yaml:"window"`
	ResetDelayMs int     `yaml:"reset_delay_ms"`
	Seed         int64   `yaml:"seed"`
	Generations  int     `yaml:"generations"`
	Pattern      string  `yaml:"pattern"`
}

func DefaultConfig() *Config {
	return &Config{
		GridSize:     DefaultSize,
		Wrap:         true,
		AutoReset:    false,
		IntervalMs:   DefaultIntervalMs,
		Density:      DefaultDensity,
		Window:       DefaultWindow,
		ResetDelayMs: DefaultResetDelay,
		Generations:  DefaultGenerations,
		Pattern:      DefaultPattern,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg.Normalize(), nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize clamps every field into its valid range in place. Missing values
// take their defaults; nothing is ever rejected.
func (c *Config) Normalize() *Config {
	c.GridSize = ClampSize(c.GridSize)
	c.IntervalMs = ClampInterval(c.IntervalMs)
	if c.Density <= 0 || c.Density > 1 {
		c.Density = DefaultDensity
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.Window > MaxWindow {
		c.Window = MaxWindow
	}
	if c.ResetDelayMs < 0 {
		c.ResetDelayMs = DefaultResetDelay
	}
	if c.Generations <= 0 {
		c.Generations = DefaultGenerations
	}
	if c.Pattern == "" {
		c.Pattern = DefaultPattern
	}
	return c
}

// ClampSize maps a requested grid side into [MinSize, MaxSize]. Zero means
// the default; negative input uses its magnitude.
func ClampSize(n int) int {
	if n == 0 {
		return DefaultSize
	}
	return Bounds().Clamp(abs(n))
}

// ClampInterval maps a step interval in milliseconds into
// [MinIntervalMs, MaxIntervalMs]. Zero means the default.
func ClampInterval(ms int) int {
	if ms == 0 {
		return DefaultIntervalMs
	}
	ms = abs(ms)
	if ms < MinIntervalMs {
		return MinIntervalMs
	}
	if ms > MaxIntervalMs {
		return MaxIntervalMs
	}
	return ms
}

func Bounds() life.Bounds {
	return life.Bounds{Min: MinSize, Max: MaxSize}
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

func (c *Config) ResetDelay() time.Duration {
	return time.Duration(c.ResetDelayMs) * time.Millisecond
}

func (c *Config) Topology() life.Topology {
	return life.TopologyOf(c.Wrap)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
