//go:build rp2040

package main

import (
	"fmt"

	"machine"

	"stimstep/core"
)

// mcuSPI implements core.SPIBus on an RP2040 SPI controller with a software
// chip-select pin. The dSPIN latches each command byte on the CS rising
// edge, so Transfer asserts CS around whatever slice the chip driver hands
// it (one byte at a time).
type mcuSPI struct {
	bus *machine.SPI
	cs  machine.Pin
}

type mcuSPIConfig struct {
	bus  *machine.SPI
	sck  machine.Pin
	sdo  machine.Pin
	sdi  machine.Pin
	cs   machine.Pin
	freq uint32
}

func newMCUSPI(cfg mcuSPIConfig) (*mcuSPI, error) {
	err := cfg.bus.Configure(machine.SPIConfig{
		Frequency: cfg.freq,
		SCK:       cfg.sck,
		SDO:       cfg.sdo,
		SDI:       cfg.sdi,
		Mode:      3,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: configure spi: %v", core.ErrHardwareInit, err)
	}

	cfg.cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	cfg.cs.High()

	return &mcuSPI{bus: cfg.bus, cs: cfg.cs}, nil
}

func (s *mcuSPI) Transfer(w []byte) ([]byte, error) {
	r := make([]byte, len(w))
	s.cs.Low()
	err := s.bus.Tx(w, r)
	s.cs.High()
	if err != nil {
		return nil, fmt.Errorf("%w: spi transfer: %v", core.ErrHardwareInit, err)
	}
	return r, nil
}
