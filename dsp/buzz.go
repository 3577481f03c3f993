package dsp

import (
	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/module"
)

// Buzz emits a raw linear ramp each chunk — not musically useful, but
// a minimal deterministic source for exercising the graph and queue
// machinery in tests.
type Buzz struct {
	module.Base
}

// NewBuzz creates a ramp generator.
func NewBuzz() *Buzz { return &Buzz{} }

func (*Buzz) NBufsOut() int { return 1 }

func (*Buzz) Process(_ []float32, _ []float32, _ []*buffer.Buffer, bufOut []buffer.Buffer) {
	out := bufOut[0].GetMut()
	for i := range out {
		out[i] = float32(i)*(2.0/buffer.NSamplesPerChunk) - 1
	}
}
