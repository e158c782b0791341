package core

import (
	"math"
	"time"
)

// ramp paces one move of a fixed number of microsteps with a trapezoidal
// velocity profile: accelerate from the base rate to the cruise rate,
// cruise, decelerate back to the base rate. The profile only shapes timing;
// the executor always emits exactly the requested step count, so rounding
// in the ramp can never change where the axis lands.
//
// Velocities are in microsteps/s, accelerations in microsteps/s². The
// per-step velocity comes from v² = v0² + 2·a·s with s counted in steps,
// evaluated from both ends of the move and clipped at cruise; when the
// acceleration and deceleration wedges overlap the profile degenerates to a
// triangle on its own.
type ramp struct {
	total  int64
	base   float64
	cruise float64
	accel  float64
	decel  float64
}

func newRamp(total int64, base, cruise, accel, decel float64) ramp {
	// A base rate above cruise means a constant-speed move at cruise.
	if base > cruise {
		base = cruise
	}
	if base < 1 {
		base = 1
	}
	return ramp{total: total, base: base, cruise: cruise, accel: accel, decel: decel}
}

// velocity returns the step rate for step i (0-based).
func (r ramp) velocity(i int64) float64 {
	vv0 := r.base * r.base
	up := math.Sqrt(vv0 + 2*r.accel*float64(i+1))
	down := math.Sqrt(vv0 + 2*r.decel*float64(r.total-1-i))
	v := r.cruise
	if up < v {
		v = up
	}
	if down < v {
		v = down
	}
	if v < r.base {
		v = r.base
	}
	return v
}

// interval returns the pacing period for step i.
func (r ramp) interval(i int64) time.Duration {
	return time.Duration(float64(time.Second) / r.velocity(i))
}
