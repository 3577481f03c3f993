package dsp

import (
	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/module"
)

// Sum mixes any number of input buffers into a single output buffer.
type Sum struct {
	module.Base
}

// NewSum creates a mixer node.
func NewSum() *Sum { return &Sum{} }

func (*Sum) NBufsOut() int { return 1 }

func (*Sum) Process(_ []float32, _ []float32, bufIn []*buffer.Buffer, bufOut []buffer.Buffer) {
	out := bufOut[0].GetMut()
	for i := range out {
		out[i] = 0
	}
	for _, in := range bufIn {
		src := in.Get()
		for i := range out {
			out[i] += src[i]
		}
	}
}
