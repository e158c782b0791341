// Command stimstep-rpi runs the motion controller on a Raspberry Pi,
// bit-banging STEP/DIR through go-rpio and talking to the driver chip
// over SPI0. Move commands arrive on the configured serial device.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"stimstep/config"
	"stimstep/core"
	hostserial "stimstep/host/serial"
	"stimstep/protocol"
)

func main() {
	cfgPath := "stimstep.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	if err := run(cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if cfg.Debug {
		core.SetDebugWriter(func(msg string) { log.Println(msg) })
		core.SetDebugEnabled(true)
	}

	gpio, err := openGPIO()
	if err != nil {
		return err
	}
	defer gpio.Close()

	spi, err := openSPI()
	if err != nil {
		return err
	}
	defer spi.Close()

	axis, err := buildAxis(cfg, gpio, spi)
	if err != nil {
		return err
	}
	defer axis.Disable()

	link, err := openLink(cfg)
	if err != nil {
		return err
	}
	defer link.Close()

	core.DebugPrintln("axis enabled, serving move commands")
	return protocol.NewServer(link, axis, nil).Serve()
}

// buildAxis pushes the configured profile to the chip and enables the
// bridges. Returns a ready-to-move axis.
func buildAxis(cfg *config.Config, gpio core.GPIODriver, spi core.SPIBus) (*core.Axis, error) {
	mode, err := core.StepModeFor(cfg.Axis.Microsteps)
	if err != nil {
		return nil, err
	}

	drv := core.NewDriver(core.NewDSPIN(spi), mode)
	if err := drv.SetJogParams(cfg.JogParams()); err != nil {
		return nil, err
	}
	if err := drv.SetMaxParams(cfg.MaxParams()); err != nil {
		return nil, err
	}
	if err := drv.SetOCThreshold(cfg.OCThresholdMA); err != nil {
		return nil, err
	}
	decay, err := cfg.DecayMode()
	if err != nil {
		return nil, err
	}
	if err := drv.SetDecayMode(decay); err != nil {
		return nil, err
	}

	backend, err := core.NewGPIOStepBackend(gpio, core.GPIOStepConfig{
		StepPin:   core.GPIOPin(cfg.Pins.Step),
		DirPin:    core.GPIOPin(cfg.Pins.Dir),
		InvertDir: cfg.Pins.InvertDir,
	}, nil)
	if err != nil {
		return nil, err
	}

	axis, err := core.NewAxis(cfg.AxisConfig(), drv, backend, nil)
	if err != nil {
		return nil, err
	}
	if err := drv.Commit(); err != nil {
		return nil, err
	}
	return axis, nil
}

// stdioLink serves the protocol over stdin/stdout when the config names
// the pseudo device "stdio" (bench testing without a serial adapter).
type stdioLink struct {
	io.Reader
	io.Writer
}

func (stdioLink) Close() error { return nil }

func openLink(cfg *config.Config) (io.ReadWriteCloser, error) {
	if cfg.Serial.Device == "stdio" {
		return stdioLink{os.Stdin, os.Stdout}, nil
	}
	scfg := hostserial.DefaultConfig(cfg.Serial.Device)
	scfg.Baud = cfg.Serial.Baud
	return hostserial.Open(scfg)
}
