package dsp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/dsp"
)

func TestGainConvergesToTarget(t *testing.T) {
	g := dsp.NewGain()

	var in buffer.Buffer
	for i := range in.GetMut() {
		in.GetMut()[i] = 1
	}
	bufIn := []*buffer.Buffer{&in}

	log2Gain := float32(math.Log2(2))
	var lastSample float32
	for chunk := 0; chunk < 20; chunk++ {
		out := make([]buffer.Buffer, 1)
		g.Process([]float32{log2Gain}, nil, bufIn, out)
		lastSample = out[0].Get()[buffer.NSamplesPerChunk-1]
	}
	require.InDelta(t, 2.0, lastSample, 1e-4)
}
