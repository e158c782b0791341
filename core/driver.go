package core

import "fmt"

// Driver owns the chip link and the motion profile. Setters are only valid
// before Commit; Commit pushes the whole profile to the chip in one
// sequence and freezes it. Setup runs on the single control thread before
// any motion, so Driver carries no lock.
type Driver struct {
	chip      ChipInterface
	profile   MotionProfile
	stepMode  StepMode
	committed bool
}

// NewDriver returns a Driver with the default profile. The step mode must
// match the axis configuration's microstep multiplier; NewAxis wires the
// two together.
func NewDriver(chip ChipInterface, stepMode StepMode) *Driver {
	return &Driver{
		chip:     chip,
		profile:  DefaultProfile(),
		stepMode: stepMode,
	}
}

// SetJogParams replaces the jog speed/accel/decel triple (deg/s, deg/s²).
func (d *Driver) SetJogParams(p RampParams) error {
	if d.committed {
		return fmt.Errorf("%w: jog params", ErrConfigFrozen)
	}
	if err := p.validate(); err != nil {
		return err
	}
	d.profile.Jog = p
	return nil
}

// SetMaxParams replaces the max-mode speed/accel/decel triple.
func (d *Driver) SetMaxParams(p RampParams) error {
	if d.committed {
		return fmt.Errorf("%w: max params", ErrConfigFrozen)
	}
	if err := p.validate(); err != nil {
		return err
	}
	d.profile.Max = p
	return nil
}

// SetOCThreshold selects an overcurrent threshold in milliamps. The value
// must be one of the chip's discrete rungs; anything else fails with
// ErrUnsupportedSetting and leaves the prior setting unchanged.
func (d *Driver) SetOCThreshold(milliamps int) error {
	if d.committed {
		return fmt.Errorf("%w: overcurrent threshold", ErrConfigFrozen)
	}
	if !validOCThreshold(milliamps) {
		return fmt.Errorf("%w: overcurrent threshold %d mA (ladder is multiples of %d up to %d)",
			ErrUnsupportedSetting, milliamps, dspinOCDStepMA, dspinOCDMaxMA)
	}
	d.profile.OCThresholdMA = milliamps
	return nil
}

// SetDecayMode selects the chip's decay strategy.
func (d *Driver) SetDecayMode(mode DecayMode) error {
	if d.committed {
		return fmt.Errorf("%w: decay mode", ErrConfigFrozen)
	}
	if mode > DecayFast {
		return fmt.Errorf("%w: decay mode %d", ErrUnsupportedSetting, mode)
	}
	d.profile.Decay = mode
	return nil
}

// Profile returns a copy of the current profile.
func (d *Driver) Profile() MotionProfile {
	return d.profile
}

// StepMode returns the microstep resolution the chip is (or will be)
// programmed with.
func (d *Driver) StepMode() StepMode {
	return d.stepMode
}

// Committed reports whether the profile has been pushed to the chip.
func (d *Driver) Committed() bool {
	return d.committed
}

// Commit programs the chip: reset latched faults, clear status, decay mode,
// current limit, microstep resolution, then enable outputs. If any step
// fails or the chip still reports a fault afterwards, Commit fails with
// ErrHardwareInit and the axis stays disabled. Re-running Commit is safe;
// it re-initializes the chip from scratch.
func (d *Driver) Commit() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"reset", d.chip.ResetLatchedFaults},
		{"clear status", d.chip.ClearStatus},
		{"decay mode", func() error { return d.chip.SetDecayMode(d.profile.Decay) }},
		{"current limit", func() error { return d.chip.SetCurrentLimit(d.profile.OCThresholdMA) }},
		{"microstep mode", func() error { return d.chip.SetMicrostepMode(d.stepMode) }},
		{"enable", d.chip.Enable},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			d.committed = false
			return fmt.Errorf("commit %s: %w", s.name, err)
		}
	}
	status, err := d.chip.Status()
	if err != nil {
		d.committed = false
		return fmt.Errorf("commit status readback: %w", err)
	}
	if status.Faulted() {
		d.committed = false
		return fmt.Errorf("%w: chip reports fault after reset (%+v)", ErrHardwareInit, status)
	}
	d.committed = true
	return nil
}

// Release puts the chip outputs in high impedance and re-opens the profile
// for mutation. Only meaningful from idle; the Axis enforces that.
func (d *Driver) release() error {
	if err := d.chip.Disable(); err != nil {
		return err
	}
	d.committed = false
	return nil
}
