package dsp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/dsp"
)

// TestBiquadUnityAtDC checks that with cutoff at Nyquist and no
// resonance, a constant-one input converges to a constant-one output.
func TestBiquadUnityAtDC(t *testing.T) {
	const sr = float32(44100)
	b := dsp.NewBiquad(sr)
	logCutoff := float32(math.Log2(float64(sr / 2)))

	var in buffer.Buffer
	inSamples := in.GetMut()
	for i := range inSamples {
		inSamples[i] = 1
	}
	bufIn := []*buffer.Buffer{&in}

	var last float32
	for chunk := 0; chunk < 5; chunk++ {
		out := make([]buffer.Buffer, 1)
		b.Process([]float32{logCutoff, 0}, nil, bufIn, out)
		last = out[0].Get()[buffer.NSamplesPerChunk-1]
	}
	require.InDelta(t, 1.0, last, 0.05)
}
