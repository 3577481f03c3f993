package dsp

import (
	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/module"
)

type adsrState uint8

const (
	adsrQuiet adsrState = iota
	adsrAttack
	adsrDecay
	adsrSustain
	adsrRelease
)

// ADSR is an attack/decay/sustain/release envelope, computed in log2
// amplitude so each segment is a constant increment per chunk. Control
// inputs 0..3 are attack, decay, sustain and release. Attack, decay and
// release are log2 time constants: each chunk steps by 2^-input, so a
// larger value is a slower segment. The sustain level is input 2 minus
// 6, in log2 amplitude.
type ADSR struct {
	module.Base
	value float32
	state adsrState
}

// NewADSR creates an envelope starting silent and quiet.
func NewADSR() *ADSR {
	return &ADSR{value: -24}
}

func (*ADSR) NCtrlOut() int { return 1 }

func (a *ADSR) HandleNote(_ float32, _ float32, on bool) {
	if on {
		a.state = adsrAttack
	} else {
		a.state = adsrRelease
	}
}

func (a *ADSR) Process(ctrlIn []float32, ctrlOut []float32, _ []*buffer.Buffer, _ []buffer.Buffer) {
	switch a.state {
	case adsrQuiet:
		// value holds at -24 (log2 amplitude) until the next note-on
	case adsrAttack:
		l := exp2(a.value)
		l += exp2(-ctrlIn[0])
		if l >= 1 {
			l = 1
			a.state = adsrDecay
		}
		a.value = log2(l)
	case adsrDecay:
		sustain := ctrlIn[2] - 6
		a.value -= exp2(-ctrlIn[1])
		if a.value < sustain {
			a.value = sustain
			a.state = adsrSustain
		}
	case adsrSustain:
		a.value = ctrlIn[2] - 6
	case adsrRelease:
		a.value -= exp2(-ctrlIn[3])
		if a.value < -24 {
			a.value = -24
			a.state = adsrQuiet
		}
	}
	ctrlOut[0] = a.value
}
