package dsp

import (
	"math"

	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/module"
)

const (
	smoothSlowestRate = 0.005 // updates/ms, i.e. a 200ms floor on the rate estimate
	smoothRateTC      = 10.0  // ms, the cascaded one-pole filters' time constant
)

// SmoothCtrl turns a stream of discrete parameter sets (e.g. from a
// MIDI controller, arriving at irregular intervals) into a smooth
// control signal. It estimates an update rate from the spacing between
// SetParam calls and runs two cascaded one-pole lowpass filters at that
// rate, advanced analytically (step-invariant) rather than per-sample —
// this is why it needs the chunk timestamp and implements
// [module.TimestampedModule] instead of plain Process.
type SmoothCtrl struct {
	module.Base
	rate     float32 // smoothed rate, updates/ms
	rateGoal float32 // unsmoothed rate estimate
	t        uint64  // timestamp of current state
	lastSetT uint64  // timestamp of last SetParam
	inp      float32 // raw, unsmoothed value
	mid      float32 // after one pole of lowpass
	out      float32 // after two poles of lowpass
}

// NewSmoothCtrl creates a control smoother starting at value with no
// transients in flight.
func NewSmoothCtrl(value float32) *SmoothCtrl {
	return &SmoothCtrl{inp: value, mid: value, out: value}
}

func (*SmoothCtrl) NCtrlOut() int { return 1 }

func (s *SmoothCtrl) Process(ctrlIn []float32, ctrlOut []float32, bufIn []*buffer.Buffer, bufOut []buffer.Buffer) {
	// ProcessTS is always preferred since SmoothCtrl implements
	// TimestampedModule; this exists only to satisfy module.Module.
	ctrlOut[0] = s.out
}

func (s *SmoothCtrl) ProcessTS(_ []float32, ctrlOut []float32, _ []*buffer.Buffer, _ []buffer.Buffer, timestamp uint64) {
	s.advanceTo(timestamp)
	ctrlOut[0] = s.out
}

func (s *SmoothCtrl) SetParam(_ int, val float32, timestamp uint64) {
	s.advanceTo(timestamp)
	if timestamp > s.lastSetT {
		rateGoal := 1e6 / float32(timestamp-s.lastSetT)
		if rateGoal <= smoothSlowestRate {
			rateGoal = smoothSlowestRate
		}
		s.rateGoal = rateGoal
		s.lastSetT = timestamp
	}
	s.inp = val
}

// advanceTo analytically advances both one-pole filters from s.t to t
// under the assumption the rate goal is constant over the interval —
// exact, not an Euler approximation, so it is correct no matter how
// large the gap since the last call.
func (s *SmoothCtrl) advanceTo(t uint64) {
	if t <= s.t {
		return
	}
	dt := float32(t-s.t) * 1e-6 // ns -> ms
	erate := float32(math.Exp(float64(-dt / smoothRateTC)))
	warpedDt := dt*s.rateGoal + smoothRateTC*(s.rate-s.rateGoal)*(1-erate)
	s.rate = s.rateGoal + (s.rate-s.rateGoal)*erate
	ewarp := float32(math.Exp(float64(-warpedDt)))
	s.out = s.inp + (s.out-s.inp+(s.mid-s.inp)*warpedDt)*ewarp
	s.mid = s.inp + (s.mid-s.inp)*ewarp
	s.t = t
}
