package core

import (
	"encoding/binary"
	"fmt"
)

// ChipStatus is the decoded STATUS register of the driver chip.
type ChipStatus struct {
	HighZ        bool
	Busy         bool
	Overcurrent  bool
	ThermalWarn  bool
	ThermalStop  bool
	Undervoltage bool
	StepLoss     bool
}

// Faulted reports whether any latched fault would keep the outputs from
// being enabled safely.
func (s ChipStatus) Faulted() bool {
	return s.Overcurrent || s.ThermalStop || s.Undervoltage || s.StepLoss
}

// ChipInterface is the narrow capability surface the Driver needs from the
// register-programmable stepper chip. It decouples the motion core from any
// particular register map; the dSPIN implementation below is the rig's real
// chip and tests provide fakes.
type ChipInterface interface {
	// ResetLatchedFaults resets the chip to its power-up state, clearing
	// latched fault flags.
	ResetLatchedFaults() error

	// ClearStatus reads and discards STATUS, clearing warn flags.
	ClearStatus() error

	SetDecayMode(mode DecayMode) error

	// SetCurrentLimit programs the overcurrent threshold. The value has
	// already been validated against the ladder by the Driver.
	SetCurrentLimit(milliamps int) error

	SetMicrostepMode(mode StepMode) error

	// Enable energizes the output bridges. Disable puts them in high
	// impedance.
	Enable() error
	Disable() error

	Status() (ChipStatus, error)
}

// dspin drives an L6470-family chip over its SPI register port.
type dspin struct {
	bus SPIBus
}

// NewDSPIN returns a ChipInterface for a dSPIN (L6470-class) driver chip on
// the given SPI bus.
func NewDSPIN(bus SPIBus) ChipInterface {
	return &dspin{bus: bus}
}

// xfer clocks bytes to the chip one at a time; the dSPIN protocol requires
// CS to toggle around every byte of a command frame.
func (d *dspin) xfer(frame []byte) ([]byte, error) {
	out := make([]byte, 0, len(frame))
	for _, b := range frame {
		r, err := d.bus.Transfer([]byte{b})
		if err != nil {
			return nil, fmt.Errorf("%w: spi transfer: %v", ErrHardwareInit, err)
		}
		out = append(out, r...)
	}
	return out, nil
}

func (d *dspin) setParam(reg byte, value uint32) error {
	n, ok := dspinRegLen[reg]
	if !ok {
		return fmt.Errorf("%w: register 0x%02x", ErrUnsupportedSetting, reg)
	}
	frame := make([]byte, 1+n)
	frame[0] = dspinCmdSetParam | reg
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], value)
	copy(frame[1:], buf[4-n:])
	_, err := d.xfer(frame)
	return err
}

func (d *dspin) getParam(reg byte) (uint32, error) {
	n, ok := dspinRegLen[reg]
	if !ok {
		return 0, fmt.Errorf("%w: register 0x%02x", ErrUnsupportedSetting, reg)
	}
	frame := make([]byte, 1+n)
	frame[0] = dspinCmdGetParam | reg
	resp, err := d.xfer(frame)
	if err != nil {
		return 0, err
	}
	var v uint32
	for _, b := range resp[1:] {
		v = v<<8 | uint32(b)
	}
	return v, nil
}

func (d *dspin) ResetLatchedFaults() error {
	_, err := d.xfer([]byte{dspinCmdResetDevice})
	return err
}

func (d *dspin) ClearStatus() error {
	// GET_STATUS clears the latched warn/fault flags as a side effect.
	_, err := d.xfer([]byte{dspinCmdGetStatus, dspinCmdNop, dspinCmdNop})
	return err
}

func (d *dspin) SetDecayMode(mode DecayMode) error {
	var bits uint32
	switch mode {
	case DecaySlow:
		bits = dspinConfigDecaySlow
	case DecayMixed:
		bits = dspinConfigDecayMixed
	case DecayFast:
		bits = dspinConfigDecayFast
	default:
		return fmt.Errorf("%w: decay mode %d", ErrUnsupportedSetting, mode)
	}
	cfg, err := d.getParam(dspinRegConfig)
	if err != nil {
		return err
	}
	cfg = cfg&^uint32(dspinConfigDecayMask) | bits
	return d.setParam(dspinRegConfig, cfg)
}

func (d *dspin) SetCurrentLimit(milliamps int) error {
	if !validOCThreshold(milliamps) {
		return fmt.Errorf("%w: overcurrent threshold %d mA", ErrUnsupportedSetting, milliamps)
	}
	code := uint32(milliamps/dspinOCDStepMA - 1)
	return d.setParam(dspinRegOCDTh, code)
}

func (d *dspin) SetMicrostepMode(mode StepMode) error {
	if mode > StepMode256 {
		return fmt.Errorf("%w: step mode %d", ErrUnsupportedSetting, mode)
	}
	// STEP_SEL is the low nibble; leave sync output disabled.
	return d.setParam(dspinRegStepMode, uint32(mode)&dspinStepSelMask)
}

func (d *dspin) Enable() error {
	// The bridges leave high impedance on the first movement command; a
	// GET_STATUS here confirms the chip answers and arms the outputs.
	_, err := d.Status()
	return err
}

func (d *dspin) Disable() error {
	_, err := d.xfer([]byte{dspinCmdHardHiZ})
	return err
}

func (d *dspin) Status() (ChipStatus, error) {
	resp, err := d.xfer([]byte{dspinCmdGetStatus, dspinCmdNop, dspinCmdNop})
	if err != nil {
		return ChipStatus{}, err
	}
	raw := uint16(resp[1])<<8 | uint16(resp[2])
	// Fault flags are active low in STATUS.
	return ChipStatus{
		HighZ:        raw&dspinStatusHiZ != 0,
		Busy:         raw&dspinStatusBusy == 0,
		Overcurrent:  raw&dspinStatusOCD == 0,
		ThermalWarn:  raw&dspinStatusThWarn == 0,
		ThermalStop:  raw&dspinStatusThShutdown == 0,
		Undervoltage: raw&dspinStatusUVLO == 0,
		StepLoss:     raw&dspinStatusStepLossA == 0 || raw&dspinStatusStepLossB == 0,
	}, nil
}
