package dsp

import (
	"math"

	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/module"
)

// Biquad is a state-variable low-pass filter in "raised" matrix form:
// the 2x2 state recurrence is lifted to a 4x4 block that advances two
// samples per matrix-vector multiply, halving the per-sample work.
type Biquad struct {
	module.Base
	srOffset   float32
	state0     float32
	state1     float32
	matrix     [16]float32
}

// NewBiquad creates a low-pass filter for the given sample rate.
func NewBiquad(sampleRate float32) *Biquad {
	return &Biquad{srOffset: log2(math.Pi) - log2(sampleRate)}
}

func (*Biquad) NBufsOut() int { return 1 }

// calcG computes the normalized angular frequency used by the state
// recurrence. logF is log2 of frequency relative to the sample rate
// (already folded through srOffset), so pi need not be reapplied here.
func calcG(logF float32) float32 {
	f := exp2(logF)
	return float32(math.Tan(float64(f)))
}

type svfParams struct {
	a [4]float32 // 2x2, column-major
	b [2]float32
	c [2]float32
	d float32
}

// svfLP computes the state-variable low-pass parameters. res ranges
// from 0 (no resonance) to 1 (self-oscillating).
func svfLP(logF, res float32) svfParams {
	g := calcG(logF)
	k := 2 - 2*res
	a1 := 2 / (1 + g*(g+k))
	a2 := g * a1
	a3 := g * a2
	return svfParams{
		a: [4]float32{a1 - 1, a2, -a2, 1 - a3},
		b: [2]float32{a2, a3},
		c: [2]float32{0.5 * a2, 1 - 0.5*a3},
		d: 0.5 * a3,
	}
}

// raiseMatrix lifts the 2x2 state recurrence into a 4x4 block that
// advances two input samples per matrix-vector multiply.
func raiseMatrix(p svfParams) [16]float32 {
	a, b, c, d := p.a, p.b, p.c, p.d
	return [16]float32{
		d, c[0]*b[0] + c[1]*b[1],
		a[0]*b[0] + a[2]*b[1], a[1]*b[0] + a[3]*b[1],

		0, d, b[0], b[1],

		c[0], c[0]*a[0] + c[1]*a[1],
		a[0]*a[0] + a[2]*a[1], a[1]*a[0] + a[3]*a[1],

		c[1], c[0]*a[2] + c[1]*a[3],
		a[0]*a[2] + a[2]*a[3], a[1]*a[2] + a[3]*a[3],
	}
}

// Process expects ctrlIn = [log2Cutoff, resonance] and a single input
// buffer; out.len() must be even since samples are consumed in pairs.
func (b *Biquad) Process(ctrlIn []float32, _ []float32, bufIn []*buffer.Buffer, bufOut []buffer.Buffer) {
	logF := ctrlIn[0]
	res := ctrlIn[1]
	b.matrix = raiseMatrix(svfLP(logF+b.srOffset, res))

	inb := bufIn[0].Get()
	out := bufOut[0].GetMut()
	m := &b.matrix
	s0, s1 := b.state0, b.state1

	for i := 0; i < len(out); i += 2 {
		x0, x1 := inb[i], inb[i+1]
		y0 := m[0]*x0 + m[4]*x1 + m[8]*s0 + m[12]*s1
		y1 := m[1]*x0 + m[5]*x1 + m[9]*s0 + m[13]*s1
		y2 := m[2]*x0 + m[6]*x1 + m[10]*s0 + m[14]*s1
		y3 := m[3]*x0 + m[7]*x1 + m[11]*s0 + m[15]*s1
		out[i] = y0
		out[i+1] = y1
		s0, s1 = y2, y3
	}
	b.state0, b.state1 = s0, s1
}
