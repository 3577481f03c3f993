package dsp

import (
	"math"

	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/module"
)

const (
	sinLgNSamples = 10
	sinNSamples   = 1 << sinLgNSamples
	sinTabMask    = sinNSamples - 1
)

// sinTab is a 1024-entry quarter-wasteful (full period) sine table plus
// one wrap-guard sample, computed once at package init so Process never
// pays for trig.
var sinTab = func() [sinNSamples + 1]float32 {
	var t [sinNSamples + 1]float32
	dth := 2 * math.Pi / float64(sinNSamples)
	for i := 0; i < sinNSamples; i++ {
		t[i] = float32(math.Sin(float64(i) * dth))
	}
	return t
}()

// Sin is a table-interpolated sine oscillator. Its control input is a
// log2-Hz frequency combined with a precomputed sample-rate offset so
// the same control value produces the same pitch at any sample rate.
type Sin struct {
	module.Base
	srOffset float32 // log2(nSamples / sampleRate)
	phase    float32 // cycles, 0..1
}

// NewSin creates a sine oscillator for the given sample rate.
func NewSin(sampleRate float32) *Sin {
	return &Sin{srOffset: log2(sinNSamples / sampleRate)}
}

func (*Sin) NBufsOut() int { return 1 }

// Migrate carries phase forward across a hot-swap so a re-installed
// Sin at the same node keeps producing a continuous waveform.
func (s *Sin) Migrate(old module.Module) {
	if o, ok := old.(*Sin); ok {
		s.phase = o.phase
	}
}

func (s *Sin) Process(ctrlIn []float32, _ []float32, _ []*buffer.Buffer, bufOut []buffer.Buffer) {
	freq := exp2(ctrlIn[0] + s.srOffset)
	out := bufOut[0].GetMut()
	phase := s.phase * sinNSamples
	for i := range out {
		tabIx := uint32(phase) & sinTabMask
		y0 := sinTab[tabIx]
		y1 := sinTab[tabIx+1]
		out[i] = y0 + (y1-y0)*mod1(phase)
		phase += freq
	}
	phaseInt := int32(phase)
	s.phase = (phase - float32(phaseInt&^sinTabMask)) * (1.0 / sinNSamples)
}

// mod1 returns the fractional part of x, matching floating-point floor
// semantics rather than a naive modulo (x - floor(x), not x - int(x)).
func mod1(x float32) float32 {
	return x - float32(math.Floor(float64(x)))
}
