package core

import "time"

// busyPollInterval bounds how long BusyWait lingers after motion goes idle.
const busyPollInterval = 500 * time.Microsecond

// BusyWait parks the caller until no move is in flight. With the pulse
// train running synchronously inside MoveTo this is a postcondition check,
// but the blocking contract is kept independent so callers written against
// it keep working if pulse emission ever moves to a background context. It
// never fails and has no timeout; callers needing one layer it externally.
func (a *Axis) BusyWait() {
	for a.IsMoving() {
		a.sleep.Sleep(busyPollInterval)
	}
}
