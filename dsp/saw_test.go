package dsp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/dsp"
)

func TestSawProducesBoundedOutput(t *testing.T) {
	const sr = float32(48000)
	s := dsp.NewSaw(sr)
	log2Freq := float32(math.Log2(220))

	out := make([]buffer.Buffer, 1)
	for chunk := 0; chunk < 20; chunk++ {
		s.Process([]float32{log2Freq}, nil, nil, out)
		// A band-limited sawtooth overshoots +-1 near the wrap (Gibbs
		// ringing, about 18% for a truncated harmonic series).
		for _, y := range out[0].Get() {
			require.LessOrEqual(t, float64(y), 1.2)
			require.GreaterOrEqual(t, float64(y), -1.2)
		}
	}
}

func TestSawLowFrequencyIsPureRamp(t *testing.T) {
	const sr = float32(48000)
	s := dsp.NewSaw(sr)
	// Well below the lowest slice: pure computed ramp regime.
	log2Freq := float32(math.Log2(20))

	out := make([]buffer.Buffer, 1)
	s.Process([]float32{log2Freq}, nil, nil, out)

	samples := out[0].Get()
	// A ramp has a small number of sign changes (ideally one, at wrap).
	signChanges := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] < 0) != (samples[i] < 0) {
			signChanges++
		}
	}
	require.LessOrEqual(t, signChanges, 2)
}

// TestSawHighFundamentalIsBandLimited renders enough chunks to form a
// window long enough for a useful FFT, at a fundamental high enough
// that an un-band-limited sawtooth's harmonics would alias heavily,
// and checks that the energy in the window's upper quarter of bins
// (a proxy for aliased/near-Nyquist content) is a small fraction of
// the total — the high slices' raised-cosine taper is doing its job.
func TestSawHighFundamentalIsBandLimited(t *testing.T) {
	const sr = float32(48000)
	s := dsp.NewSaw(sr)
	// 10*f > sr/2 at sr=48000 requires f > 2400; well above the pure-ramp
	// regime, so this exercises real table lookups.
	log2Freq := float32(math.Log2(3000))

	const nChunks = 16
	samples := make([]float64, 0, nChunks*buffer.NSamplesPerChunk)
	out := make([]buffer.Buffer, 1)
	for i := 0; i < nChunks; i++ {
		s.Process([]float32{log2Freq}, nil, nil, out)
		for _, y := range out[0].Get() {
			samples = append(samples, float64(y))
		}
	}

	fft := fourier.NewFFT(len(samples))
	coeffs := fft.Coefficients(nil, samples)

	var total, upper float64
	upperStart := len(coeffs) * 3 / 4
	for i, c := range coeffs {
		e := real(c)*real(c) + imag(c)*imag(c)
		total += e
		if i >= upperStart {
			upper += e
		}
	}
	require.Greater(t, total, 0.0)
	require.Less(t, upper/total, 0.05)
}

func TestSawMigrateCarriesPhase(t *testing.T) {
	const sr = float32(48000)
	a := dsp.NewSaw(sr)
	log2Freq := float32(math.Log2(220))
	out := make([]buffer.Buffer, 1)
	a.Process([]float32{log2Freq}, nil, nil, out)

	b := dsp.NewSaw(sr)
	b.Migrate(a)

	outA := make([]buffer.Buffer, 1)
	outB := make([]buffer.Buffer, 1)
	a.Process([]float32{log2Freq}, nil, nil, outA)
	b.Process([]float32{log2Freq}, nil, nil, outB)

	for i := range outA[0].Get() {
		require.InDelta(t, outA[0].Get()[i], outB[0].Get()[i], 1e-6)
	}
}
