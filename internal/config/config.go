package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/antpole/internal/pole"
)

const (
	DefaultPoleLength    = pole.DefaultPoleLength
	DefaultSpeed         = pole.DefaultSpeed
	DefaultTimeIncrement = pole.DefaultTimeIncrement
	DefaultFrameRate     = 30
)

var ErrUnknownPreset = errors.New("config: unknown preset")

type Config struct {
	PoleLength    int        `yaml:"pole_length"`
	Speed         int        `yaml:"speed"`
	TimeIncrement int        `yaml:"time_increment"`
	Positions     []int      `yaml:"positions"`
	Directions    string     `yaml:"directions,omitempty"`
	View          ViewConfig `yaml:"view"`
}

type ViewConfig struct {
	FrameRate int `yaml:"fps"`
	Width     int `yaml:"width"`
}

func DefaultConfig() *Config {
	return &Config{
		PoleLength:    DefaultPoleLength,
		Speed:         DefaultSpeed,
		TimeIncrement: DefaultTimeIncrement,
		Positions:     pole.DefaultPositions(),
		View: ViewConfig{
			FrameRate: DefaultFrameRate,
			Width:     60,
		},
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
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Params() pole.Params {
	return pole.Params{
		TimeIncrement: c.TimeIncrement,
		PoleLength:    c.PoleLength,
		Speed:         c.Speed,
	}
}

// InitialDirections parses the configured directions. An empty value means
// every ant faces left.
func (c *Config) InitialDirections() ([]pole.Direction, error) {
	if c.Directions == "" {
		return pole.IndexToDirections(0, len(c.Positions)), nil
	}
	return pole.ParseDirections(c.Directions)
}

// Validate checks the configuration by building a throwaway simulation.
func (c *Config) Validate() error {
	dirs, err := c.InitialDirections()
	if err != nil {
		return err
	}
	_, err = pole.New(c.Params(), c.Positions, dirs)
	return err
}

// Clone returns a deep copy so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.Positions = append([]int(nil), c.Positions...)
	return &out
}
