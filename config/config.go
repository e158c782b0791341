// Package config loads the rig configuration supplied at process start.
// There is no persisted state beyond this file; position is volatile and
// re-established by the host after power-up.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stimstep/core"
)

// SerialConfig describes the command link device.
type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// PinConfig maps the STEP/DIR lines (BCM numbering on the Pi).
type PinConfig struct {
	Step      int  `yaml:"step"`
	Dir       int  `yaml:"dir"`
	InvertDir bool `yaml:"invert_dir"`
}

// AxisSection holds the mechanical constants.
type AxisSection struct {
	FullstepsPerRev int     `yaml:"fullsteps_per_rev"`
	Microsteps      int     `yaml:"microsteps"`
	GearRatio       float64 `yaml:"gear_ratio"`
}

// RampSection is one speed/accel/decel triple in deg/s and deg/s².
type RampSection struct {
	Speed float64 `yaml:"speed"`
	Accel float64 `yaml:"accel"`
	Decel float64 `yaml:"decel"`
}

// Config aggregates the whole rig configuration.
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Pins   PinConfig    `yaml:"pins"`
	Axis   AxisSection  `yaml:"axis"`

	Jog           RampSection `yaml:"jog"`
	Max           RampSection `yaml:"max"`
	OCThresholdMA int         `yaml:"oc_threshold_ma"`
	Decay         string      `yaml:"decay"`

	Debug bool `yaml:"debug"`
}

// Load reads, defaults and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes configuration bytes. Split from Load for tests.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	applyDefaults(&cfg)

	if cfg.Serial.Device == "" {
		return nil, fmt.Errorf("serial.device is required")
	}
	if cfg.Pins.Step <= 0 || cfg.Pins.Dir <= 0 {
		return nil, fmt.Errorf("pins.step and pins.dir are required")
	}
	if cfg.Pins.Step == cfg.Pins.Dir {
		return nil, fmt.Errorf("pins.step and pins.dir must differ, both are %d", cfg.Pins.Step)
	}
	// Axis constants are validated by the core converter so rejection
	// uses one rule set.
	if _, err := core.NewConverter(cfg.AxisConfig()); err != nil {
		return nil, err
	}
	if _, err := cfg.DecayMode(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 9600
	}
	if cfg.Axis.FullstepsPerRev == 0 {
		cfg.Axis.FullstepsPerRev = 200
	}
	if cfg.Axis.Microsteps == 0 {
		cfg.Axis.Microsteps = 16
	}
	if cfg.Axis.GearRatio == 0 {
		cfg.Axis.GearRatio = 1.0
	}

	prof := core.DefaultProfile()
	if cfg.Jog == (RampSection{}) {
		cfg.Jog = RampSection{prof.Jog.Speed, prof.Jog.Accel, prof.Jog.Decel}
	}
	if cfg.Max == (RampSection{}) {
		cfg.Max = RampSection{prof.Max.Speed, prof.Max.Accel, prof.Max.Decel}
	}
	if cfg.OCThresholdMA == 0 {
		cfg.OCThresholdMA = prof.OCThresholdMA
	}
	if cfg.Decay == "" {
		cfg.Decay = prof.Decay.String()
	}
}

// AxisConfig converts the axis section to core constants.
func (c *Config) AxisConfig() core.AxisConfig {
	return core.AxisConfig{
		FullstepsPerRev: c.Axis.FullstepsPerRev,
		Microsteps:      c.Axis.Microsteps,
		GearRatio:       c.Axis.GearRatio,
	}
}

// JogParams returns the jog triple as core ramp params.
func (c *Config) JogParams() core.RampParams {
	return core.RampParams{Speed: c.Jog.Speed, Accel: c.Jog.Accel, Decel: c.Jog.Decel}
}

// MaxParams returns the max triple as core ramp params.
func (c *Config) MaxParams() core.RampParams {
	return core.RampParams{Speed: c.Max.Speed, Accel: c.Max.Accel, Decel: c.Max.Decel}
}

// DecayMode parses the decay setting.
func (c *Config) DecayMode() (core.DecayMode, error) {
	switch c.Decay {
	case "slow":
		return core.DecaySlow, nil
	case "mixed":
		return core.DecayMixed, nil
	case "fast":
		return core.DecayFast, nil
	}
	return 0, fmt.Errorf("decay must be slow, mixed or fast, got %q", c.Decay)
}
