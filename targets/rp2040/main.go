//go:build rp2040

// Motion controller firmware for an RP2040 carrier board. STEP pulses come
// from a PIO state machine, the driver chip hangs off SPI0, and move
// commands arrive over USB CDC. The rig constants are compiled in; there
// is no filesystem to load a config from.
package main

import (
	"time"

	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"stimstep/core"
	"stimstep/protocol"
)

// Board wiring.
const (
	stepPin = machine.GPIO2
	dirPin  = machine.GPIO3

	spiSCK  = machine.GPIO18
	spiSDO  = machine.GPIO19
	spiSDI  = machine.GPIO16
	spiCS   = machine.GPIO17
	spiFreq = 1000000
)

// Rig constants: 200 fullstep motor, 16 microsteps, 30:72 belt reduction.
var axisConfig = core.AxisConfig{
	FullstepsPerRev: 200,
	Microsteps:      16,
	GearRatio:       2.4,
}

func main() {
	link := initUSB()
	core.SetDebugWriter(func(msg string) { println(msg) })

	axis, backend, err := buildAxis()
	if err != nil {
		fatal(err)
	}

	for {
		// A clean EOF just means the host closed the port; keep the
		// axis enabled and wait for it to come back.
		if err := protocol.NewServer(link, axis, nil).Serve(); err != nil {
			// Drop any queued pulse words before parking.
			backend.stop()
			fatal(err)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func buildAxis() (*core.Axis, *pioStepBackend, error) {
	spi, err := newMCUSPI(mcuSPIConfig{
		bus:  machine.SPI0,
		sck:  spiSCK,
		sdo:  spiSDO,
		sdi:  spiSDI,
		cs:   spiCS,
		freq: spiFreq,
	})
	if err != nil {
		return nil, nil, err
	}

	mode, err := core.StepModeFor(axisConfig.Microsteps)
	if err != nil {
		return nil, nil, err
	}
	drv := core.NewDriver(core.NewDSPIN(spi), mode)

	backend, err := newPIOStepBackend(rp2pio.PIO0, 0, core.GPIOStepConfig{
		StepPin: core.GPIOPin(stepPin),
		DirPin:  core.GPIOPin(dirPin),
	}, nil)
	if err != nil {
		return nil, nil, err
	}

	axis, err := core.NewAxis(axisConfig, drv, backend, nil)
	if err != nil {
		return nil, nil, err
	}
	if err := drv.Commit(); err != nil {
		return nil, nil, err
	}
	return axis, backend, nil
}

// fatal blinks the board LED; there is nowhere better to report a hardware
// init failure before the USB link is serving.
func fatal(err error) {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
		println("fatal:", err.Error())
	}
}
