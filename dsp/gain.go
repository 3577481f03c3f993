package dsp

import (
	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/module"
)

// Gain applies a log2 gain control to a buffer input, linearly
// smoothing from the previous chunk's gain to the new one across the
// chunk to avoid a zipper-noise discontinuity at the chunk boundary.
type Gain struct {
	module.Base
	lastG float32
}

// NewGain creates a gain node that starts silent and ramps to its
// first commanded gain over the first chunk it processes.
func NewGain() *Gain { return &Gain{} }

func (*Gain) NBufsOut() int { return 1 }

func (g *Gain) Process(ctrlIn []float32, _ []float32, bufIn []*buffer.Buffer, bufOut []buffer.Buffer) {
	target := exp2(ctrlIn[0])
	out := bufOut[0].GetMut()
	dg := (target - g.lastG) * (1.0 / float32(len(out)))
	y := g.lastG + dg
	g.lastG = target

	in := bufIn[0].Get()
	for i := range out {
		out[i] = in[i] * y
		y += dg
	}
}
