//go:build rp2040

package main

// PIO step pulse generation. The state machine runs at 1 MHz (clkdiv 125
// from the 125 MHz system clock) so one PIO cycle is one microsecond and
// the FIFO word is simply the low-time in microseconds. Pulse width is
// fixed at 3 us, comfortably above the chip's minimum.
//
// Word format: bits 0-31 = cycles to hold STEP low after the pulse.
//
// Program flow:
//  1. Pull a 32-bit word from the FIFO into X
//  2. Drive STEP high for 3 cycles
//  3. Drive STEP low
//  4. Burn X cycles before pulling the next word

import (
	"machine"
	"time"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"stimstep/core"
)

func buildPulseProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),                   // 0: pull block
		asm.Out(rp2pio.OutDestX, 32).Encode(),            // 1: out x, 32 (low cycles)
		asm.Set(rp2pio.SetDestPins, 1).Delay(2).Encode(), // 2: set pins, 1 [2]
		asm.Set(rp2pio.SetDestPins, 0).Encode(),          // 3: set pins, 0
		// low_loop:
		asm.Jmp(4, rp2pio.JmpXNZeroDec).Encode(), // 4: jmp x--, 4
		// .wrap
	}
}

const pulseProgramOrigin = 0

// pulse timing at 1 us per PIO cycle
const (
	pulseClkDivInt  = 125
	pulseHighCycles = 3
	pulseLowMin     = 1
)

// pioStepBackend implements core.StepBackend with hardware-timed pulses.
// The DIR line stays a plain GPIO; only STEP belongs to the state machine.
type pioStepBackend struct {
	sm        rp2pio.StateMachine
	stepPin   machine.Pin
	dirPin    machine.Pin
	invertDir bool
	sleep     core.Sleeper
}

func newPIOStepBackend(pioHW *rp2pio.PIO, smNum uint8, cfg core.GPIOStepConfig, sleep core.Sleeper) (*pioStepBackend, error) {
	if sleep == nil {
		sleep = core.TimeSleeper{}
	}
	b := &pioStepBackend{
		sm:        pioHW.StateMachine(smNum),
		stepPin:   machine.Pin(cfg.StepPin),
		dirPin:    machine.Pin(cfg.DirPin),
		invertDir: cfg.InvertDir,
		sleep:     sleep,
	}

	b.sm.TryClaim()

	program := buildPulseProgram()
	offset, err := pioHW.AddProgram(program, pulseProgramOrigin)
	if err != nil {
		return nil, err
	}

	b.stepPin.Configure(machine.PinConfig{Mode: pioHW.PinMode()})
	b.dirPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	smCfg := rp2pio.DefaultStateMachineConfig()
	smCfg.SetSetPins(b.stepPin, 1)
	smCfg.SetOutShift(true, false, 32)
	smCfg.SetWrap(offset+uint8(len(program))-1, offset)
	smCfg.SetClkDivIntFrac(pulseClkDivInt, 0)

	b.sm.Init(offset, smCfg)

	// Pin directions must be set after Init.
	b.sm.SetPindirsConsecutive(b.stepPin, 1, true)
	b.sm.SetPinsConsecutive(b.stepPin, 1, false)
	b.sm.SetEnabled(true)

	if err := b.SetDirection(true); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *pioStepBackend) SetDirection(forward bool) error {
	level := forward
	if b.invertDir {
		level = !level
	}
	b.dirPin.Set(level)
	b.sleep.Sleep(core.DirSetupTime)
	return nil
}

// Step queues one pulse word and blocks for the step period, pacing
// issuance so the FIFO never runs more than the in-flight pulse ahead of
// the position counter.
func (b *pioStepBackend) Step(period time.Duration) error {
	if period < 2*core.MinPulseWidth {
		period = 2 * core.MinPulseWidth
	}

	low := int64(period/time.Microsecond) - pulseHighCycles
	if low < pulseLowMin {
		low = pulseLowMin
	}

	for b.sm.IsTxFIFOFull() {
	}
	b.sm.TxPut(uint32(low))

	b.sleep.Sleep(period)
	return nil
}

// stop halts pulse generation and clears any queued words.
func (b *pioStepBackend) stop() {
	b.sm.SetEnabled(false)
	b.sm.ClearFIFOs()
	b.sm.Restart()
	b.sm.SetEnabled(true)
}
