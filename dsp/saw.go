package dsp

import (
	"math"

	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/module"
)

const (
	sawLgNSamples     = 10
	sawNSamples       = 1 << sawLgNSamples
	sawNPartialsMax   = sawNSamples / 2
	sawSlicesPerOct   = 4 // 1 << lgSlicesPerOctave(2)
	sawNSlices        = 36
	sawSliceBase      = -9.609300863499751 // empirical, fits 44.1k and 48k sample rates
	sawSliceOverlap   = 0.125
)

// sawTab holds N_SLICES band-limited sawtooth periods, each built by
// summing sine harmonics up to the Nyquist limit for that slice's
// fundamental, with a raised-cosine taper over the top quarter of
// harmonics to avoid a hard cutoff. Computed once at package init.
var sawTab = func() [sawNSlices][sawNSamples + 1]float32 {
	var t [sawNSlices][sawNSamples + 1]float32
	var lut [sawNSamples / 2]float64

	sliceInc := exp2(1.0 / sawSlicesPerOct)
	f0 := float32(math.Pow(float64(sliceInc), float64(sawNSlices-1))) * exp2(sawSliceBase)
	nPartialsLast := 0

	for j := sawNSlices - 1; j >= 0; j-- {
		nPartials := int(0.5 / f0)
		if nPartials > sawNPartialsMax {
			nPartials = sawNPartialsMax
		}
		for k := nPartialsLast + 1; k <= nPartials; k++ {
			scale := -(2.0 / math.Pi) / float64(k)
			if sawNPartialsMax-k <= sawNPartialsMax>>2 {
				scale *= float64(sawNPartialsMax-k) * (1.0 / float64(sawNPartialsMax>>2))
			}
			dphase := float64(k) * (2.0 * math.Pi / float64(sawNSamples))
			c, s := math.Cos(dphase), math.Sin(dphase)
			u, v := scale, 0.0
			for i := range lut {
				lut[i] += v
				nt := u*s + v*c
				u = u*c - v*s
				v = nt
			}
		}
		for i := 1; i < sawNSamples/2; i++ {
			value := float32(lut[i])
			t[j][i] = value
			t[j][sawNSamples-i] = -value
		}
		nPartialsLast = nPartials
		f0 *= 1.0 / sliceInc
	}
	return t
}()

// Saw is a band-limited sawtooth oscillator: at low fundamentals it
// computes a pure ramp (no aliasing risk), and at higher fundamentals
// it looks up (and crossfades between) precomputed slices, four per octave,
// whose harmonic content has been tapered below Nyquist.
type Saw struct {
	module.Base
	srOffset float32
	phase    float32
}

// NewSaw creates a sawtooth oscillator for the given sample rate.
func NewSaw(sampleRate float32) *Saw {
	return &Saw{srOffset: sawLgNSamples - log2(sampleRate)}
}

func (*Saw) NBufsOut() int { return 1 }

func (s *Saw) Migrate(old module.Module) {
	if o, ok := old.(*Saw); ok {
		s.phase = o.phase
	}
}

func sawCompute(tabIx int, phaseFrac float32) float32 {
	return (float32(tabIx)+phaseFrac)*(2.0/sawNSamples) - 1.0
}

func (s *Saw) Process(ctrlIn []float32, _ []float32, _ []*buffer.Buffer, bufOut []buffer.Buffer) {
	logf := ctrlIn[0] + s.srOffset
	sliceOff := float32(-sawSliceBase - sawLgNSamples)
	slice := (logf + sliceOff) * sawSlicesPerOct
	freq := exp2(logf)
	out := bufOut[0].GetMut()
	phase := s.phase

	switch {
	case slice < -sawSliceOverlap:
		for i := range out {
			phaseInt := int32(phase)
			tabIx := int(phaseInt) % sawNSamples
			phaseFrac := phase - float32(phaseInt)
			out[i] = sawCompute(tabIx, phaseFrac)
			phase += freq
		}

	case slice < 0:
		tab := &sawTab[0]
		yi := slice * (-1.0 / sawSliceOverlap) // 1 = ramp, 0 = table
		for i := range out {
			phaseInt := int32(phase)
			tabIx := int(phaseInt) % sawNSamples
			phaseFrac := phase - float32(phaseInt)
			yc := sawCompute(tabIx, phaseFrac)
			y0, y1 := tab[tabIx], tab[tabIx+1]
			yl := y0 + (y1-y0)*phaseFrac
			out[i] = yl + yi*(yc-yl)
			phase += freq
		}

	default:
		sliceInt := uint32(slice)
		sliceFrac := slice - float32(sliceInt)
		if sliceFrac < 1-sawSliceOverlap || sliceInt >= sawNSlices-1 {
			idx := int(sliceInt)
			if idx >= sawNSlices {
				idx = sawNSlices - 1
			}
			tab := &sawTab[idx]
			for i := range out {
				phaseInt := int32(phase)
				tabIx := int(phaseInt) % sawNSamples
				y0, y1 := tab[tabIx], tab[tabIx+1]
				out[i] = y0 + (y1-y0)*(phase-float32(phaseInt))
				phase += freq
			}
		} else {
			tab0 := &sawTab[sliceInt]
			tab1 := &sawTab[sliceInt+1]
			yi := (sliceFrac - (1 - sawSliceOverlap)) * (1.0 / sawSliceOverlap)
			for i := range out {
				phaseInt := int32(phase)
				tabIx := int(phaseInt) % sawNSamples
				phaseFrac := phase - float32(phaseInt)
				y00, y01 := tab0[tabIx], tab0[tabIx+1]
				y0 := y00 + (y01-y00)*phaseFrac
				y10, y11 := tab1[tabIx], tab1[tabIx+1]
				y1 := y10 + (y11-y10)*phaseFrac
				out[i] = y0 + yi*(y1-y0)
				phase += freq
			}
		}
	}

	phaseInt := int32(phase)
	s.phase = phase - float32(phaseInt&^(sawNSamples-1))
}
