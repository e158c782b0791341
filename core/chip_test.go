package core

import (
	"errors"
	"testing"
)

// healthyStatus is a STATUS word with all active-low fault flags deasserted
// and the busy flag high (idle).
const healthyStatus = uint16(dspinStatusOCD | dspinStatusThWarn | dspinStatusThShutdown |
	dspinStatusUVLO | dspinStatusStepLossA | dspinStatusStepLossB | dspinStatusBusy)

func statusBytes(raw uint16) []byte {
	// GET_STATUS clocks the word out during the two NOP bytes.
	return []byte{0x00, byte(raw >> 8), byte(raw)}
}

func TestDSPINSetCurrentLimit(t *testing.T) {
	tests := []struct {
		ma   int
		code byte
	}{
		{375, 0x00},
		{750, 0x01},
		{3000, 0x07},
		{6000, 0x0F},
	}
	for _, tt := range tests {
		bus := &fakeSPI{}
		chip := NewDSPIN(bus)
		if err := chip.SetCurrentLimit(tt.ma); err != nil {
			t.Fatalf("SetCurrentLimit(%d): %v", tt.ma, err)
		}
		want := []byte{dspinCmdSetParam | dspinRegOCDTh, tt.code}
		if len(bus.wrote) != len(want) || bus.wrote[0] != want[0] || bus.wrote[1] != want[1] {
			t.Errorf("SetCurrentLimit(%d) wrote % x, want % x", tt.ma, bus.wrote, want)
		}
	}

	chip := NewDSPIN(&fakeSPI{})
	if err := chip.SetCurrentLimit(400); !errors.Is(err, ErrUnsupportedSetting) {
		t.Errorf("SetCurrentLimit(400) = %v, want ErrUnsupportedSetting", err)
	}
}

func TestDSPINSetMicrostepMode(t *testing.T) {
	bus := &fakeSPI{}
	chip := NewDSPIN(bus)
	if err := chip.SetMicrostepMode(StepMode128); err != nil {
		t.Fatalf("SetMicrostepMode: %v", err)
	}
	want := []byte{dspinCmdSetParam | dspinRegStepMode, 0x07}
	if len(bus.wrote) != 2 || bus.wrote[0] != want[0] || bus.wrote[1] != want[1] {
		t.Errorf("SetMicrostepMode wrote % x, want % x", bus.wrote, want)
	}
}

func TestDSPINStatusDecode(t *testing.T) {
	bus := &fakeSPI{resp: statusBytes(healthyStatus)}
	chip := NewDSPIN(bus)
	status, err := chip.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Faulted() {
		t.Errorf("healthy word decoded as faulted: %+v", status)
	}
	if status.Busy {
		t.Errorf("idle word decoded as busy")
	}

	// Drop the active-low OCD bit: overcurrent latched.
	bus = &fakeSPI{resp: statusBytes(healthyStatus &^ dspinStatusOCD)}
	chip = NewDSPIN(bus)
	status, err = chip.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.Overcurrent || !status.Faulted() {
		t.Errorf("overcurrent word decoded as %+v", status)
	}
}

func TestDSPINDecayModeReadModifyWrite(t *testing.T) {
	// GetParam(CONFIG) answers the power-up value during the two payload
	// bytes, then SetParam(CONFIG) writes the merged word back.
	bus := &fakeSPI{resp: []byte{0x00, byte(dspinConfigDefault >> 8), byte(dspinConfigDefault & 0xff)}}
	chip := NewDSPIN(bus)
	if err := chip.SetDecayMode(DecayMixed); err != nil {
		t.Fatalf("SetDecayMode: %v", err)
	}
	// read frame (3 bytes) then write frame (3 bytes)
	if len(bus.wrote) != 6 {
		t.Fatalf("wrote % x, want 6 bytes", bus.wrote)
	}
	if bus.wrote[3] != dspinCmdSetParam|dspinRegConfig {
		t.Errorf("write command = %#x", bus.wrote[3])
	}
	merged := uint16(bus.wrote[4])<<8 | uint16(bus.wrote[5])
	if merged&dspinConfigDecayMask != dspinConfigDecayMixed {
		t.Errorf("decay field = %#x, want %#x", merged&dspinConfigDecayMask, dspinConfigDecayMixed)
	}
	if merged&^uint16(dspinConfigDecayMask) != dspinConfigDefault&^uint16(dspinConfigDecayMask) {
		t.Errorf("unrelated CONFIG bits disturbed: %#x", merged)
	}
}

func TestDSPINTransferFailureIsHardwareInit(t *testing.T) {
	bus := &fakeSPI{err: errors.New("cs stuck")}
	chip := NewDSPIN(bus)
	if err := chip.ResetLatchedFaults(); !errors.Is(err, ErrHardwareInit) {
		t.Errorf("ResetLatchedFaults = %v, want ErrHardwareInit", err)
	}
	if _, err := chip.Status(); !errors.Is(err, ErrHardwareInit) {
		t.Errorf("Status = %v, want ErrHardwareInit", err)
	}
}
