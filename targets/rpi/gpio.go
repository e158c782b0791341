package main

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"

	"stimstep/core"
)

// rpiGPIO drives BCM pins through go-rpio's memory-mapped interface.
// Requires /dev/gpiomem access or root.
type rpiGPIO struct{}

func openGPIO() (*rpiGPIO, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("%w: open gpio: %v (are you running on a Raspberry Pi?)", core.ErrHardwareInit, err)
	}
	return &rpiGPIO{}, nil
}

func (g *rpiGPIO) ConfigureOutput(pin core.GPIOPin) error {
	rpio.Pin(pin).Output()
	return nil
}

func (g *rpiGPIO) SetPin(pin core.GPIOPin, value bool) error {
	if value {
		rpio.Pin(pin).High()
	} else {
		rpio.Pin(pin).Low()
	}
	return nil
}

func (g *rpiGPIO) Close() error {
	return rpio.Close()
}
