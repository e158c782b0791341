package core

import (
	"fmt"
	"math"
)

// RampParams is one speed/acceleration triple of the motion profile, in
// axis-degrees per second and per second squared.
type RampParams struct {
	Speed float64
	Accel float64
	Decel float64
}

func (p RampParams) validate() error {
	for _, v := range [...]float64{p.Speed, p.Accel, p.Decel} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: ramp params %+v", ErrUnsupportedSetting, p)
		}
	}
	return nil
}

// MoveMode selects which ramp triple paces a move.
type MoveMode uint8

const (
	// MoveModeJog runs moves at the jog profile, the setting for short
	// manually-issued moves.
	MoveModeJog MoveMode = iota

	// MoveModeMax runs moves at the motion ceiling: accelerate from jog
	// speed to max speed, cruise, decelerate.
	MoveModeMax
)

// StepMode is the chip's enumerated microstep resolution.
type StepMode uint8

const (
	StepModeFull StepMode = iota // STEP_FS
	StepModeHalf                 // STEP_FS_2
	StepMode4
	StepMode8
	StepMode16
	StepMode32
	StepMode64
	StepMode128
	StepMode256
)

// StepModeFor returns the step mode for a microstep multiplier.
func StepModeFor(microsteps int) (StepMode, error) {
	if !validMicrosteps(microsteps) {
		return 0, fmt.Errorf("%w: microstep multiplier %d", ErrUnsupportedSetting, microsteps)
	}
	mode := StepModeFull
	for n := microsteps; n > 1; n >>= 1 {
		mode++
	}
	return mode, nil
}

// Microsteps returns the multiplier encoded by the mode.
func (m StepMode) Microsteps() int {
	return 1 << m
}

func (m StepMode) String() string {
	if m == StepModeFull {
		return "STEP_FS"
	}
	return fmt.Sprintf("STEP_FS_%d", m.Microsteps())
}

// DecayMode is the chip's current-recirculation strategy when de-energizing
// a winding.
type DecayMode uint8

const (
	DecaySlow DecayMode = iota
	DecayMixed
	DecayFast
)

func (d DecayMode) String() string {
	switch d {
	case DecaySlow:
		return "slow"
	case DecayMixed:
		return "mixed"
	case DecayFast:
		return "fast"
	}
	return "unknown"
}

// MotionProfile holds the electrical and velocity settings pushed to the
// chip at Commit. Constructed with defaults, mutated through the Driver's
// setters, frozen once the axis is enabled.
type MotionProfile struct {
	Jog RampParams
	Max RampParams

	// OCThresholdMA is the overcurrent threshold in milliamps. Must be a
	// rung of the chip's discrete ladder (multiples of 375 up to 6000).
	OCThresholdMA int

	Decay DecayMode
}

// DefaultProfile returns the profile the rig historically ran with: gentle
// jog settings for trial moves, a high ceiling for repositioning.
func DefaultProfile() MotionProfile {
	return MotionProfile{
		Jog:           RampParams{Speed: 60, Accel: 100, Decel: 1000},
		Max:           RampParams{Speed: 1000, Accel: 30000, Decel: 30000},
		OCThresholdMA: 3000,
		Decay:         DecayMixed,
	}
}

func validOCThreshold(ma int) bool {
	return ma >= dspinOCDStepMA && ma <= dspinOCDMaxMA && ma%dspinOCDStepMA == 0
}
