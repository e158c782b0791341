// Package serial provides the host-side serial port the rig's command
// link runs over.
package serial

import (
	"io"
)

// Port is the byte stream to the controller. An interface so tests can
// script the device side without hardware.
type Port interface {
	io.ReadWriteCloser

	// Flush drops any bytes buffered in the OS driver, used before the
	// first command so a stale partial frame can't shift the framing.
	Flush() error
}

// Config holds the port parameters.
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (the rig's controller runs at 9600; USB CDC ignores this)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the configuration the rig's controller expects.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        9600,
		ReadTimeout: 0, // moves block until "ok", so reads stay blocking
	}
}
