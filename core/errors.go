package core

import "errors"

// Error taxonomy for the motion core. All of these are local and
// synchronous; the driver never retries on its own. Callers match with
// errors.Is since most sites wrap with context via fmt.Errorf.
var (
	// ErrConfig indicates invalid axis constants (fullsteps per rev,
	// microstep multiplier, gear ratio).
	ErrConfig = errors.New("invalid axis configuration")

	// ErrUnsupportedSetting indicates a value outside the chip's discrete
	// option set (overcurrent ladder, step mode). The prior configuration
	// is left unchanged.
	ErrUnsupportedSetting = errors.New("setting not supported by driver chip")

	// ErrHardwareInit indicates the chip failed to reset or reported a
	// fault during Commit.
	ErrHardwareInit = errors.New("driver chip initialization failed")

	// ErrConfigFrozen indicates a profile mutation after Commit.
	ErrConfigFrozen = errors.New("configuration frozen after commit")

	// ErrNotEnabled indicates motion was requested before Commit.
	ErrNotEnabled = errors.New("axis not enabled")

	// ErrAlreadyMoving indicates a second move was requested while one is
	// in flight. There is no queuing or preemption.
	ErrAlreadyMoving = errors.New("move already in progress")

	// ErrInvalidState indicates a disallowed state transition, such as
	// disabling or re-zeroing the axis mid-motion.
	ErrInvalidState = errors.New("operation not allowed in current state")
)
