package core

import (
	"fmt"
	"sync"
)

// Axis is the motion executor: the single owner of the axis state. It
// converts absolute angle commands into a timed pulse train on the STEP/DIR
// backend and tracks the absolute position in microsteps, the one source of
// truth all other unit readings derive from.
//
// The pulse train runs synchronously inside MoveTo on the calling thread;
// STEP/DIR is one shared electrical resource and must never see overlapping
// or reordered pulses. The mutex exists so a monitoring goroutine can read
// position and motion state without racing: position advances under the
// lock once per retired pulse, never speculatively, so an observer is never
// ahead of the hardware and at most one pulse behind.
type Axis struct {
	mu      sync.Mutex
	conv    *Converter
	drv     *Driver
	backend StepBackend
	sleep   Sleeper

	mode   MoveMode
	pos    int64 // microsteps
	moving bool
}

// NewAxis wires the converter, driver and step backend into an executor.
// The driver's step mode must agree with the axis config's microstep
// multiplier; a mismatch would silently scale every move. A nil sleep gets
// the real time.Sleep implementation.
func NewAxis(cfg AxisConfig, drv *Driver, backend StepBackend, sleep Sleeper) (*Axis, error) {
	conv, err := NewConverter(cfg)
	if err != nil {
		return nil, err
	}
	if drv.StepMode().Microsteps() != cfg.Microsteps {
		return nil, fmt.Errorf("%w: driver step mode %s vs axis microsteps %d",
			ErrConfig, drv.StepMode(), cfg.Microsteps)
	}
	if sleep == nil {
		sleep = TimeSleeper{}
	}
	return &Axis{
		conv:    conv,
		drv:     drv,
		backend: backend,
		sleep:   sleep,
		mode:    MoveModeMax,
	}, nil
}

// Converter returns the axis unit converter.
func (a *Axis) Converter() *Converter {
	return a.conv
}

// SetMoveMode selects the profile triple pacing subsequent moves. Takes
// effect on the next MoveTo; an in-flight move keeps its ramp.
func (a *Axis) SetMoveMode(mode MoveMode) {
	a.mu.Lock()
	a.mode = mode
	a.mu.Unlock()
}

// MoveTo drives the axis to an absolute angle in degrees and blocks until
// the pulse train completes. A move to the current position emits nothing
// and returns immediately. Fails with ErrNotEnabled before Commit and
// ErrAlreadyMoving while a move is in flight; there is no queuing or
// preemption, one in-flight move at a time.
func (a *Axis) MoveTo(targetDeg float64) error {
	a.mu.Lock()
	if !a.drv.Committed() {
		a.mu.Unlock()
		return fmt.Errorf("move to %.3f°: %w", targetDeg, ErrNotEnabled)
	}
	if a.moving {
		a.mu.Unlock()
		return fmt.Errorf("move to %.3f°: %w", targetDeg, ErrAlreadyMoving)
	}
	target := a.conv.DegreesToMicrosteps(targetDeg)
	delta := target - a.pos
	if delta == 0 {
		a.mu.Unlock()
		return nil
	}
	a.moving = true
	profile := a.drv.Profile()
	mode := a.mode
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.moving = false
		a.mu.Unlock()
	}()

	forward := delta > 0
	count := delta
	inc := int64(1)
	if !forward {
		count = -delta
		inc = -1
	}
	if err := a.backend.SetDirection(forward); err != nil {
		return fmt.Errorf("set direction: %w", err)
	}

	r := a.plan(profile, mode, count)
	DebugPrintln(fmt.Sprintf("[AXIS] move %d usteps (%s, %s)", delta, direction(forward), mode))

	for i := int64(0); i < count; i++ {
		if err := a.backend.Step(r.interval(i)); err != nil {
			return fmt.Errorf("step %d of %d: %w", i+1, count, err)
		}
		// Position retires in lock-step with the emitted pulse.
		a.mu.Lock()
		a.pos += inc
		a.mu.Unlock()
	}
	return nil
}

// plan builds the pacing ramp for a move of count microsteps. Max mode is
// the full trapezoid: start at jog speed, cruise at max speed, decelerate
// at the max rates. Jog mode runs the whole move at jog speed.
func (a *Axis) plan(p MotionProfile, mode MoveMode, count int64) ramp {
	base := a.conv.StepRate(p.Jog.Speed)
	switch mode {
	case MoveModeJog:
		return newRamp(count, base,
			base,
			a.conv.StepRate(p.Jog.Accel),
			a.conv.StepRate(p.Jog.Decel))
	default:
		return newRamp(count, base,
			a.conv.StepRate(p.Max.Speed),
			a.conv.StepRate(p.Max.Accel),
			a.conv.StepRate(p.Max.Decel))
	}
}

// SetPosition re-zeroes the absolute position register to the given angle
// while idle (used after an external homing procedure). Rejected mid-motion
// with ErrInvalidState; an in-flight count is never rolled back or skewed.
func (a *Axis) SetPosition(deg float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.moving {
		return fmt.Errorf("set position: %w", ErrInvalidState)
	}
	a.pos = a.conv.DegreesToMicrosteps(deg)
	return nil
}

// Disable releases the motor (outputs to high impedance) and re-opens the
// configuration. Only valid from Enabled(Idle).
func (a *Axis) Disable() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.drv.Committed() {
		return fmt.Errorf("disable: %w", ErrNotEnabled)
	}
	if a.moving {
		return fmt.Errorf("disable while moving: %w", ErrInvalidState)
	}
	return a.drv.release()
}

// IsMoving reports whether a pulse train is in flight.
func (a *Axis) IsMoving() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.moving
}

// PositionMicrosteps returns the absolute position in microsteps. Always
// safe to call; the value is only settled once motion is idle.
func (a *Axis) PositionMicrosteps() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pos
}

// PositionFullsteps returns the position derived in motor fullsteps.
func (a *Axis) PositionFullsteps() int64 {
	return a.conv.MicrostepsToFullsteps(a.PositionMicrosteps())
}

// PositionDegrees returns the position derived in axis degrees.
func (a *Axis) PositionDegrees() float64 {
	return a.conv.MicrostepsToDegrees(a.PositionMicrosteps())
}

func direction(forward bool) string {
	if forward {
		return "fwd"
	}
	return "rev"
}

func (m MoveMode) String() string {
	if m == MoveModeJog {
		return "jog"
	}
	return "max"
}
