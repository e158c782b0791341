package core

// dSPIN-class register definitions for the SPI-programmable stepper driver
// chip behind the rig's chip-select line. The rig uses the L6470 family
// layout: parameter registers addressed by SetParam/GetParam application
// commands, plus single-byte action commands.

// Parameter register addresses
const (
	dspinRegAbsPos    = 0x01 // Absolute position counter (22-bit signed)
	dspinRegElPos     = 0x02 // Electrical position
	dspinRegMark      = 0x03 // Mark position
	dspinRegSpeed     = 0x04 // Current speed (read only)
	dspinRegAcc       = 0x05 // Acceleration
	dspinRegDec       = 0x06 // Deceleration
	dspinRegMaxSpeed  = 0x07 // Maximum speed
	dspinRegMinSpeed  = 0x08 // Minimum speed
	dspinRegKvalHold  = 0x09 // Holding voltage amplitude
	dspinRegKvalRun   = 0x0A // Constant speed voltage amplitude
	dspinRegKvalAcc   = 0x0B // Acceleration voltage amplitude
	dspinRegKvalDec   = 0x0C // Deceleration voltage amplitude
	dspinRegOCDTh     = 0x13 // Overcurrent detection threshold
	dspinRegStallTh   = 0x14 // Stall detection threshold
	dspinRegStepMode  = 0x16 // Step mode (microstep selector, sync output)
	dspinRegAlarmEn   = 0x17 // Alarm enable mask
	dspinRegConfig    = 0x18 // IC configuration (osc, slew rate, decay)
	dspinRegStatus    = 0x19 // Status (read only, reading clears warn flags)
)

// Parameter register payload sizes in bytes
var dspinRegLen = map[byte]int{
	dspinRegAbsPos:   3,
	dspinRegElPos:    2,
	dspinRegMark:     3,
	dspinRegSpeed:    3,
	dspinRegAcc:      2,
	dspinRegDec:      2,
	dspinRegMaxSpeed: 2,
	dspinRegMinSpeed: 2,
	dspinRegKvalHold: 1,
	dspinRegKvalRun:  1,
	dspinRegKvalAcc:  1,
	dspinRegKvalDec:  1,
	dspinRegOCDTh:    1,
	dspinRegStallTh:  1,
	dspinRegStepMode: 1,
	dspinRegAlarmEn:  1,
	dspinRegConfig:   2,
	dspinRegStatus:   2,
}

// Application commands (first SPI byte)
const (
	dspinCmdNop         = 0x00
	dspinCmdSetParam    = 0x00 // OR'd with register address
	dspinCmdGetParam    = 0x20 // OR'd with register address
	dspinCmdResetPos    = 0xD8 // Zero the ABS_POS counter
	dspinCmdResetDevice = 0xC0 // Reset to power-up state, clears latched faults
	dspinCmdSoftHiZ     = 0xA0 // Decelerating stop, then bridges to high-Z
	dspinCmdHardHiZ     = 0xA8 // Immediate high-Z
	dspinCmdGetStatus   = 0xD0 // Read STATUS and clear latched fault flags
)

// STATUS register bits
const (
	dspinStatusHiZ        = 0x0001 // Bridges in high impedance
	dspinStatusBusy       = 0x0002 // Inverted: 0 while a command executes
	dspinStatusSwF        = 0x0004 // External switch level
	dspinStatusSwEvn      = 0x0008 // Switch falling edge (latched)
	dspinStatusDir        = 0x0010 // Current direction
	dspinStatusNotPerfCmd = 0x0080 // Command could not be performed (latched)
	dspinStatusWrongCmd   = 0x0100 // Unknown command (latched)
	dspinStatusUVLO       = 0x0200 // Undervoltage lockout (latched, active low)
	dspinStatusThWarn     = 0x0400 // Thermal warning (latched, active low)
	dspinStatusThShutdown = 0x0800 // Thermal shutdown (latched, active low)
	dspinStatusOCD        = 0x1000 // Overcurrent detection (latched, active low)
	dspinStatusStepLossA  = 0x2000 // Stall on bridge A (latched, active low)
	dspinStatusStepLossB  = 0x4000 // Stall on bridge B (latched, active low)
)

// STEP_MODE register fields. stepSel values 0..8 select 1..256 microsteps.
const (
	dspinStepSelMask = 0x0F
	dspinSyncEnable  = 0x80
)

// CONFIG register decay/slew field values
const (
	dspinConfigDecaySlow  = 0x0000
	dspinConfigDecayMixed = 0x0100
	dspinConfigDecayFast  = 0x0200
	dspinConfigDecayMask  = 0x0300
	dspinConfigDefault    = 0x2E88 // Power-up value per datasheet
)

// Overcurrent threshold ladder: OCD_TH encodes (code+1) * 375 mA.
const (
	dspinOCDStepMA = 375
	dspinOCDMaxMA  = 6000
)
