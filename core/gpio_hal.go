package core

// GPIOPin identifies a hardware GPIO pin number.
type GPIOPin uint32

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations (Raspberry Pi, RP2040, fakes in tests)
// handle actual hardware control. The STEP/DIR lines of an axis are
// exclusively owned by the executor built on top of this driver; no other
// component may write them.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output.
	ConfigureOutput(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false).
	SetPin(pin GPIOPin, value bool) error
}
