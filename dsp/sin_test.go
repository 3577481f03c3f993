package dsp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/dsp"
)

func TestSinMatchesClosedForm(t *testing.T) {
	const sr = float32(44100)
	s := dsp.NewSin(sr)
	freq := float32(440)
	log2Freq := float32(math.Log2(float64(freq)))

	out := make([]buffer.Buffer, 1)
	s.Process([]float32{log2Freq}, nil, nil, out)

	samples := out[0].Get()
	for i, y := range samples {
		want := math.Sin(2 * math.Pi * float64(freq) * float64(i) / float64(sr))
		require.InDelta(t, want, float64(y), 5e-3, "sample %d", i)
	}
}

func TestSinMigrateCarriesPhase(t *testing.T) {
	const sr = float32(44100)
	a := dsp.NewSin(sr)
	freq := float32(440)
	log2Freq := float32(math.Log2(float64(freq)))

	out1 := make([]buffer.Buffer, 1)
	a.Process([]float32{log2Freq}, nil, nil, out1)

	b := dsp.NewSin(sr)
	b.Migrate(a)

	out2a := make([]buffer.Buffer, 1)
	b.Process([]float32{log2Freq}, nil, nil, out2a)

	// Continuing the original forward should produce the same next
	// chunk, since Migrate only carries phase.
	out2b := make([]buffer.Buffer, 1)
	a.Process([]float32{log2Freq}, nil, nil, out2b)

	for i := range out2a[0].Get() {
		require.InDelta(t, out2b[0].Get()[i], out2a[0].Get()[i], 1e-6)
	}
}
