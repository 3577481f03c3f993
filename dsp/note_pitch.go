package dsp

import (
	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/module"
)

// NotePitch holds the pitch (in log2-Hz) of the most recent note-on it
// received, for feeding an oscillator's control input.
type NotePitch struct {
	module.Base
	value float32
}

// NewNotePitch creates a note-to-pitch converter, silent until the
// first note-on.
func NewNotePitch() *NotePitch { return &NotePitch{} }

func (*NotePitch) NCtrlOut() int { return 1 }

func (n *NotePitch) HandleNote(midiNum float32, _ float32, on bool) {
	if on {
		n.value = midiNum*(1.0/12.0) + (log2(440) - 69.0/12.0)
	}
}

func (n *NotePitch) Process(_ []float32, ctrlOut []float32, _ []*buffer.Buffer, _ []buffer.Buffer) {
	ctrlOut[0] = n.value
}
