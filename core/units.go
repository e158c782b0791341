package core

import (
	"fmt"
	"math"
)

// AxisConfig holds the mechanical constants of the controlled axis. It is
// consumed once when the converter (and executor) is built; there is no way
// to change it mid-motion.
type AxisConfig struct {
	// FullstepsPerRev is the motor's native resolution (200 for a 1.8°
	// motor).
	FullstepsPerRev int

	// Microsteps is the driver chip's microstep multiplier. Must be a
	// power of two between 1 and 256.
	Microsteps int

	// GearRatio is the mechanical reduction between the motor shaft and
	// the axis (2.4 means 2.4 motor revolutions per axis revolution).
	GearRatio float64
}

func (c AxisConfig) validate() error {
	if c.FullstepsPerRev <= 0 {
		return fmt.Errorf("%w: fullsteps per rev %d", ErrConfig, c.FullstepsPerRev)
	}
	if !validMicrosteps(c.Microsteps) {
		return fmt.Errorf("%w: microstep multiplier %d", ErrConfig, c.Microsteps)
	}
	if c.GearRatio <= 0 || math.IsNaN(c.GearRatio) || math.IsInf(c.GearRatio, 0) {
		return fmt.Errorf("%w: gear ratio %v", ErrConfig, c.GearRatio)
	}
	return nil
}

func validMicrosteps(n int) bool {
	switch n {
	case 1, 2, 4, 8, 16, 32, 64, 128, 256:
		return true
	}
	return false
}

// Converter performs degree / fullstep / microstep conversions for one axis.
// It is pure arithmetic over the axis constants; all stateful position
// tracking lives in the Executor and is expressed in microsteps only, so
// degree and fullstep readings are always derived and can never drift.
type Converter struct {
	fullstepsPerRev int
	microsteps      int
	gearRatio       float64
}

// NewConverter validates the axis constants and returns a converter.
func NewConverter(cfg AxisConfig) (*Converter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Converter{
		fullstepsPerRev: cfg.FullstepsPerRev,
		microsteps:      cfg.Microsteps,
		gearRatio:       cfg.GearRatio,
	}, nil
}

// MicrostepsPerRev returns fullsteps per rev times the microstep multiplier
// (one motor revolution, not one axis revolution).
func (c *Converter) MicrostepsPerRev() int {
	return c.fullstepsPerRev * c.microsteps
}

// DegreesToMicrosteps converts an axis angle to microsteps, rounding to the
// nearest integer with ties away from zero. The single rounding per call is
// the only error source; repeated absolute moves do not accumulate bias.
func (c *Converter) DegreesToMicrosteps(deg float64) int64 {
	return int64(math.Round(deg * c.gearRatio / 360.0 * float64(c.MicrostepsPerRev())))
}

// MicrostepsToDegrees converts a microstep position to an axis angle.
func (c *Converter) MicrostepsToDegrees(us int64) float64 {
	return float64(us) * 360.0 / (c.gearRatio * float64(c.MicrostepsPerRev()))
}

// DegreesToFullsteps converts an axis angle to motor fullsteps, same
// rounding rule as DegreesToMicrosteps.
func (c *Converter) DegreesToFullsteps(deg float64) int64 {
	return int64(math.Round(deg * c.gearRatio / 360.0 * float64(c.fullstepsPerRev)))
}

// FullstepsToDegrees converts motor fullsteps to an axis angle.
func (c *Converter) FullstepsToDegrees(fs int64) float64 {
	return float64(fs) * 360.0 / (c.gearRatio * float64(c.fullstepsPerRev))
}

// MicrostepsToFullsteps returns the fullstep reading derived from a
// microstep position. Truncates toward zero; partial fullsteps are reported
// by the degree reading, not here.
func (c *Converter) MicrostepsToFullsteps(us int64) int64 {
	return us / int64(c.microsteps)
}

// StepRate converts an axis angular speed in deg/s to a motor microstep
// rate in steps/s. Used by the executor to pace the pulse train.
func (c *Converter) StepRate(degPerSec float64) float64 {
	return degPerSec * c.gearRatio / 360.0 * float64(c.MicrostepsPerRev())
}
