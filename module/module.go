// Package module defines the contract every graph node implements.
package module

import "github.com/wrenaudio/synthio/buffer"

// Module is one node's audio/control processing logic. Implementations
// must be lock-free and allocation-free inside Process/ProcessTS: the
// graph calls these once per chunk on the audio thread.
type Module interface {
	// NBufsOut reports how many output buffers this module produces.
	NBufsOut() int

	// NCtrlOut reports how many output control values this module produces.
	NCtrlOut() int

	// Process renders one chunk. ctrlIn/bufIn are this module's wired
	// inputs; ctrlOut/bufOut are this module's outputs, sized NCtrlOut()
	// and NBufsOut() respectively.
	Process(ctrlIn []float32, ctrlOut []float32, bufIn []*buffer.Buffer, bufOut []buffer.Buffer)

	// SetParam applies a control-thread parameter change, timestamped
	// relative to the sample clock.
	SetParam(paramIx int, val float32, timestamp uint64)

	// HandleNote applies a note on/off event.
	HandleNote(midiNum float32, velocity float32, on bool)

	// Migrate gives a freshly-inserted module the chance to carry state
	// forward from the module it replaces at the same graph slot (e.g.
	// a filter keeping its state variables across a patch edit).
	Migrate(old Module)
}

// TimestampedModule is implemented by modules whose output depends on
// exactly when within the chunk boundary they run (e.g. parameter
// smoothing). The graph runner calls ProcessTS instead of Process when
// a module implements this interface.
type TimestampedModule interface {
	Module
	ProcessTS(ctrlIn []float32, ctrlOut []float32, bufIn []*buffer.Buffer, bufOut []buffer.Buffer, timestamp uint64)
}

// Base provides no-op defaults for the optional parts of Module so
// concrete modules only need to implement Process and the output
// counts that differ from zero. Embed it by value.
type Base struct{}

func (Base) SetParam(int, float32, uint64)         {}
func (Base) HandleNote(float32, float32, bool)     {}
func (Base) Migrate(Module)                        {}
func (Base) NBufsOut() int                         { return 0 }
func (Base) NCtrlOut() int                         { return 0 }
