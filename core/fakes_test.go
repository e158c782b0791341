package core

import (
	"sync"
	"time"
)

// fakeGPIO records pin writes for assertions.
type fakeGPIO struct {
	mu         sync.Mutex
	configured map[GPIOPin]bool
	levels     map[GPIOPin]bool
	writes     []pinWrite
}

type pinWrite struct {
	pin   GPIOPin
	level bool
}

func newFakeGPIO() *fakeGPIO {
	return &fakeGPIO{
		configured: make(map[GPIOPin]bool),
		levels:     make(map[GPIOPin]bool),
	}
}

func (g *fakeGPIO) ConfigureOutput(pin GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.configured[pin] = true
	return nil
}

func (g *fakeGPIO) SetPin(pin GPIOPin, value bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.levels[pin] = value
	g.writes = append(g.writes, pinWrite{pin, value})
	return nil
}

// fakeSleeper records requested delays without sleeping.
type fakeSleeper struct {
	mu    sync.Mutex
	slept []time.Duration
	total time.Duration
}

func (s *fakeSleeper) Sleep(d time.Duration) {
	s.mu.Lock()
	s.slept = append(s.slept, d)
	s.total += d
	s.mu.Unlock()
}

// fakeChip implements ChipInterface and records the call sequence.
type fakeChip struct {
	calls  []string
	failOn string
	status ChipStatus
}

func (c *fakeChip) record(name string) error {
	c.calls = append(c.calls, name)
	if c.failOn == name {
		return ErrHardwareInit
	}
	return nil
}

func (c *fakeChip) ResetLatchedFaults() error       { return c.record("reset") }
func (c *fakeChip) ClearStatus() error              { return c.record("clear") }
func (c *fakeChip) SetDecayMode(DecayMode) error    { return c.record("decay") }
func (c *fakeChip) SetCurrentLimit(int) error       { return c.record("current") }
func (c *fakeChip) SetMicrostepMode(StepMode) error { return c.record("microstep") }
func (c *fakeChip) Enable() error                   { return c.record("enable") }
func (c *fakeChip) Disable() error                  { return c.record("disable") }

func (c *fakeChip) Status() (ChipStatus, error) {
	if err := c.record("status"); err != nil {
		return ChipStatus{}, err
	}
	return c.status, nil
}

// fakeSPI answers each single-byte transfer with a queued response byte
// (zero once the queue drains) and records everything written.
type fakeSPI struct {
	wrote []byte
	resp  []byte
	err   error
}

func (s *fakeSPI) Transfer(w []byte) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.wrote = append(s.wrote, w...)
	out := make([]byte, len(w))
	for i := range out {
		if len(s.resp) > 0 {
			out[i] = s.resp[0]
			s.resp = s.resp[1:]
		}
	}
	return out, nil
}

// fakeBackend records direction changes and step periods.
type fakeBackend struct {
	mu    sync.Mutex
	dirs  []bool
	steps []time.Duration
	err   error
	block chan struct{} // if non-nil, Step blocks until closed
}

func (b *fakeBackend) SetDirection(forward bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirs = append(b.dirs, forward)
	return nil
}

func (b *fakeBackend) Step(period time.Duration) error {
	b.mu.Lock()
	if b.err != nil {
		b.mu.Unlock()
		return b.err
	}
	b.steps = append(b.steps, period)
	block := b.block
	b.mu.Unlock()
	if block != nil {
		<-block
	}
	return nil
}

func (b *fakeBackend) stepCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.steps)
}

// enabledAxis builds a committed axis on fakes for executor tests.
func enabledAxis(cfg AxisConfig, backend StepBackend) (*Axis, *Driver, error) {
	mode, err := StepModeFor(cfg.Microsteps)
	if err != nil {
		return nil, nil, err
	}
	drv := NewDriver(&fakeChip{}, mode)
	if err := drv.Commit(); err != nil {
		return nil, nil, err
	}
	axis, err := NewAxis(cfg, drv, backend, &fakeSleeper{})
	if err != nil {
		return nil, nil, err
	}
	return axis, drv, nil
}
