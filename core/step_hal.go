package core

import (
	"fmt"
	"time"
)

// STEP/DIR electrical timing. The chip triggers on the STEP rising edge and
// needs the pulse held high at least MinPulseWidth; DIR must be stable
// DirSetupTime around any STEP transition.
const (
	MinPulseWidth = 2 * time.Microsecond
	DirSetupTime  = time.Microsecond
)

// Sleeper abstracts the pulse-timing waits so tests can run the executor
// without wall-clock delays.
type Sleeper interface {
	Sleep(d time.Duration)
}

// TimeSleeper is the real Sleeper backed by time.Sleep.
type TimeSleeper struct{}

func (TimeSleeper) Sleep(d time.Duration) { time.Sleep(d) }

// StepBackend is the hardware abstraction for emitting the pulse train.
// Implementations can toggle GPIOs directly or hand pulses to dedicated
// hardware (RP2040 PIO).
type StepBackend interface {
	// SetDirection drives the DIR line (true = forward) and guarantees
	// the chip's setup time elapses before the next STEP edge.
	SetDirection(forward bool) error

	// Step emits a single pulse and blocks for the full step period:
	// STEP high for at least MinPulseWidth, low for the remainder. The
	// period is the inter-step interval the ramp asks for; periods below
	// 2*MinPulseWidth are stretched to keep the pulse legal.
	Step(period time.Duration) error
}

// GPIOStepConfig maps the backend onto pins.
type GPIOStepConfig struct {
	StepPin   GPIOPin
	DirPin    GPIOPin
	InvertDir bool
}

// gpioStepBackend bit-bangs STEP/DIR through a GPIODriver.
type gpioStepBackend struct {
	gpio  GPIODriver
	cfg   GPIOStepConfig
	sleep Sleeper
}

// NewGPIOStepBackend configures the pins as outputs (STEP low, DIR forward)
// and returns the backend.
func NewGPIOStepBackend(gpio GPIODriver, cfg GPIOStepConfig, sleep Sleeper) (StepBackend, error) {
	if sleep == nil {
		sleep = TimeSleeper{}
	}
	b := &gpioStepBackend{gpio: gpio, cfg: cfg, sleep: sleep}
	for _, pin := range [...]GPIOPin{cfg.StepPin, cfg.DirPin} {
		if err := gpio.ConfigureOutput(pin); err != nil {
			return nil, fmt.Errorf("configure pin %d: %w", pin, err)
		}
	}
	if err := gpio.SetPin(cfg.StepPin, false); err != nil {
		return nil, err
	}
	if err := b.SetDirection(true); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *gpioStepBackend) SetDirection(forward bool) error {
	level := forward
	if b.cfg.InvertDir {
		level = !level
	}
	if err := b.gpio.SetPin(b.cfg.DirPin, level); err != nil {
		return err
	}
	b.sleep.Sleep(DirSetupTime)
	return nil
}

func (b *gpioStepBackend) Step(period time.Duration) error {
	if period < 2*MinPulseWidth {
		period = 2 * MinPulseWidth
	}
	if err := b.gpio.SetPin(b.cfg.StepPin, true); err != nil {
		return err
	}
	b.sleep.Sleep(MinPulseWidth)
	if err := b.gpio.SetPin(b.cfg.StepPin, false); err != nil {
		return err
	}
	b.sleep.Sleep(period - MinPulseWidth)
	return nil
}
