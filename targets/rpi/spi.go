package main

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"

	"stimstep/core"
)

// dSPIN register port: SPI mode 3, CS released by go-rpio after each
// SpiExchange, which gives the per-byte CS toggling the chip requires.
const spiClockHz = 1000000

// rpiSPI implements core.SPIBus on the Pi's SPI0 controller.
type rpiSPI struct{}

func openSPI() (*rpiSPI, error) {
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		return nil, fmt.Errorf("%w: open spi: %v", core.ErrHardwareInit, err)
	}
	rpio.SpiChipSelect(0)
	rpio.SpiMode(1, 1)
	rpio.SpiSpeed(spiClockHz)
	return &rpiSPI{}, nil
}

func (s *rpiSPI) Transfer(w []byte) ([]byte, error) {
	buf := make([]byte, len(w))
	copy(buf, w)
	rpio.SpiExchange(buf)
	return buf, nil
}

func (s *rpiSPI) Close() error {
	rpio.SpiEnd(rpio.Spi0)
	return nil
}
