package graph

import "github.com/wrenaudio/synthio/module"

// Message is a control-thread command destined for the worker. The
// four concrete types below are everything a running patch can do:
// install or replace a node, push a parameter change, fan a note event
// out to every node that wants one, or ask the worker to stop.
type Message interface {
	isMessage()
}

// NodeInstall installs (or replaces) the graph slot at Ix with Node.
type NodeInstall struct {
	Ix   uint
	Node *Node
}

func (NodeInstall) isMessage() {}

// SetParam applies a single parameter change to the module at Ix.
type SetParam struct {
	Ix       uint
	ParamIx  int
	Val      float32
	Timestamp uint64
}

func (SetParam) isMessage() {}

// Note fans a note on/off event out to every node index in Ixs.
type Note struct {
	Ixs       []uint
	MidiNum   float32
	Velocity  float32
	On        bool
	Timestamp uint64
}

func (Note) isMessage() {}

// Quit asks the worker to stop processing. The graph and queues are
// left intact; it is the audio callback that decides what stopping
// means (e.g. closing the stream), not the worker itself.
type Quit struct{}

func (Quit) isMessage() {}

// GetModule returns the module installed at ix. Panics if the slot is
// empty. Used by the worker to apply SetParam/Note messages without
// replacing the node.
func (g *Graph) GetModule(ix uint) module.Module {
	n := g.nodes[ix]
	if n == nil {
		panic("graph: GetModule on empty slot")
	}
	return n.Module
}
