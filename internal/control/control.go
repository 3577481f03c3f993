// Package control is the non-real-time layer that drives a [worker.Worker]:
// it builds patches, allocates node ids, and turns MIDI bytes and note
// events into graph messages. Nothing here runs on the audio thread.
package control

import (
	"math"

	"github.com/wrenaudio/synthio/dsp"
	"github.com/wrenaudio/synthio/graph"
	"github.com/wrenaudio/synthio/internal/idalloc"
	"github.com/wrenaudio/synthio/lfq"
	"github.com/wrenaudio/synthio/module"
	"github.com/wrenaudio/synthio/worker"
)

func log2(x float64) float32 { return float32(math.Log2(x)) }

// ControlMap records the node ids a MIDI dispatcher needs to reach
// into a running patch: the per-parameter SmoothCtrl ids and the list
// of node ids that should see every note event.
type ControlMap struct {
	Cutoff  uint
	Reso    uint
	Attack  uint
	Decay   uint
	Sustain uint
	Release uint

	// Ext is the node id of a Sum node an outside caller can rewire to
	// inject extra audio into the mix (mirrors the "ext" bus in the
	// original engine's monosynth patch).
	Ext uint

	NoteReceivers []uint
}

// Core owns the connection to the worker: the id allocator and the
// message sender/receiver pair.
type Core struct {
	sampleRate float32
	tx         lfq.Sender[graph.Message]
	rx         lfq.Receiver[graph.Message]
	ids        *idalloc.Allocator

	monitorTx lfq.Sender[[]float32]
	monitorRx lfq.Receiver[[]float32]
}

// NewCore wraps the Sender/Receiver pair returned by worker.Create.
// Id 0 is reserved for the permanent graph root.
func NewCore(sampleRate float32, tx lfq.Sender[graph.Message], rx lfq.Receiver[graph.Message]) *Core {
	ids := idalloc.New()
	ids.Reserve(0)
	return &Core{sampleRate: sampleRate, tx: tx, rx: rx, ids: ids}
}

// createNode allocates an id, builds a node around m with the given
// wirings, and sends it to the worker. Returns the allocated id.
func (c *Core) createNode(m module.Module, inBuf, inCtrl []graph.Wire) uint {
	id := c.ids.Alloc()
	c.tx.Send(graph.NodeInstall{Ix: id, Node: graph.NewNode(m, inBuf, inCtrl)})
	return id
}

// UpdateSumNode replaces sumNode with a fresh Sum wired to read the
// buffer-0 output of every node id in outputs. Used both to seed the
// root bus and, with id 0, to change what feeds the final mix.
func (c *Core) UpdateSumNode(sumNode uint, outputs []uint) {
	wiring := make([]graph.Wire, len(outputs))
	for i, o := range outputs {
		wiring[i] = graph.Wire{NodeIx: o, SlotIx: 0}
	}
	c.tx.Send(graph.NodeInstall{Ix: sumNode, Node: graph.NewNode(dsp.NewSum(), wiring, nil)})
}

// InitMonosynth builds the default patch — NotePitch -> Saw -> Biquad
// (controlled by smoothed cutoff/resonance) -> Gain (controlled by an
// ADSR fed by four smoothed rate/level controls) -> Sum (mixed with an
// external bus) -> Monitor -> root — and returns the ControlMap a MIDI
// dispatcher needs to drive it.
func (c *Core) InitMonosynth() ControlMap {
	sr := c.sampleRate

	notePitch := c.createNode(dsp.NewNotePitch(), nil, nil)
	saw := c.createNode(dsp.NewSaw(sr), nil, []graph.Wire{{NodeIx: notePitch, SlotIx: 0}})

	cutoff := c.createNode(dsp.NewSmoothCtrl(log2(880)), nil, nil)
	reso := c.createNode(dsp.NewSmoothCtrl(0.5), nil, nil)
	filterOut := c.createNode(dsp.NewBiquad(sr),
		[]graph.Wire{{NodeIx: saw, SlotIx: 0}},
		[]graph.Wire{{NodeIx: cutoff, SlotIx: 0}, {NodeIx: reso, SlotIx: 0}})

	attack := c.createNode(dsp.NewSmoothCtrl(5.0), nil, nil)
	decay := c.createNode(dsp.NewSmoothCtrl(5.0), nil, nil)
	sustain := c.createNode(dsp.NewSmoothCtrl(4.0), nil, nil)
	release := c.createNode(dsp.NewSmoothCtrl(5.0), nil, nil)
	adsr := c.createNode(dsp.NewADSR(), nil, []graph.Wire{
		{NodeIx: attack, SlotIx: 0},
		{NodeIx: decay, SlotIx: 0},
		{NodeIx: sustain, SlotIx: 0},
		{NodeIx: release, SlotIx: 0},
	})
	envOut := c.createNode(dsp.NewGain(),
		[]graph.Wire{{NodeIx: filterOut, SlotIx: 0}},
		[]graph.Wire{{NodeIx: adsr, SlotIx: 0}})

	ext := c.createNode(dsp.NewSum(), nil, nil)
	extGain := c.createNode(dsp.NewConstCtrl(-2.0), nil, nil)
	extAtten := c.createNode(dsp.NewGain(),
		[]graph.Wire{{NodeIx: ext, SlotIx: 0}},
		[]graph.Wire{{NodeIx: extGain, SlotIx: 0}})

	monitorIn := c.createNode(dsp.NewSum(),
		[]graph.Wire{{NodeIx: envOut, SlotIx: 0}, {NodeIx: extAtten, SlotIx: 0}}, nil)

	mon, monTx, monRx := dsp.NewMonitor()
	c.monitorTx, c.monitorRx = monTx, monRx
	monitor := c.createNode(mon, []graph.Wire{{NodeIx: monitorIn, SlotIx: 0}}, nil)

	c.UpdateSumNode(0, []uint{monitor})

	return ControlMap{
		Cutoff:        cutoff,
		Reso:          reso,
		Attack:        attack,
		Decay:         decay,
		Sustain:       sustain,
		Release:       release,
		Ext:           ext,
		NoteReceivers: []uint{notePitch, adsr},
	}
}

// PollRx drains the worker's return queue and reports how many items
// came back (diagnostics; not required on a steady-state path).
func (c *Core) PollRx() int {
	n := 0
	for range c.rx.RecvItems() {
		n++
	}
	return n
}

// PollMonitor drains whatever audio the Monitor node has accumulated
// since the last call and appends it to dst. Each drained buffer is
// recycled back into the Monitor's pool via SendItem, so polling
// never allocates beyond dst's own growth.
func (c *Core) PollMonitor(dst []float32) []float32 {
	for it := range c.monitorRx.RecvItems() {
		buf := it.Get()
		dst = append(dst, buf...)
		it.Set(buf[:0])
		c.monitorTx.SendItem(it)
	}
	return dst
}

// Midi holds the control map plus the small amount of per-note state
// (the currently-held note, for a monophonic instrument) a MIDI
// dispatcher needs.
type Midi struct {
	controlMap ControlMap
	curNote    *uint8
}

// NewMidi wraps a ControlMap produced by InitMonosynth.
func NewMidi(cm ControlMap) *Midi {
	return &Midi{controlMap: cm}
}

func (m *Midi) setCtrlConst(c *Core, value uint8, lo, hi float32, ix uint, ts uint64) {
	v := lo + float32(value)*(1.0/127.0)*(hi-lo)
	c.tx.Send(graph.SetParam{Ix: ix, ParamIx: 0, Val: v, Timestamp: ts})
}

func (m *Midi) sendNote(c *Core, ixs []uint, midiNum, velocity float32, on bool, ts uint64) {
	c.tx.Send(graph.Note{Ixs: ixs, MidiNum: midiNum, Velocity: velocity, On: on, Timestamp: ts})
}

// DispatchMidi interprets one raw MIDI message (status byte plus two
// data bytes; shorter messages are ignored) via a fixed controller
// map: CC1 -> cutoff, CC2 ->
// resonance, CC5..CC8 -> ADSR attack/decay/sustain/release, and
// 0x90/0x80 status -> note on/off routed to every NoteReceivers id.
func (m *Midi) DispatchMidi(c *Core, data []byte, ts uint64) {
	if len(data) < 3 {
		return
	}
	status, d1, d2 := data[0], data[1], data[2]

	switch status & 0xf0 {
	case 0x90: // note on (velocity 0 is conventionally note off)
		if d2 == 0 {
			m.noteOff(c, d1, ts)
			return
		}
		m.curNote = &d1
		m.sendNote(c, m.controlMap.NoteReceivers, float32(d1), float32(d2), true, ts)
	case 0x80: // note off
		m.noteOff(c, d1, ts)
	case 0xb0: // control change
		switch d1 {
		case 1:
			m.setCtrlConst(c, d2, 0, log2(22000), m.controlMap.Cutoff, ts)
		case 2:
			m.setCtrlConst(c, d2, 0, 0.99, m.controlMap.Reso, ts)
		case 5:
			m.setCtrlConst(c, d2, 0, 10, m.controlMap.Attack, ts)
		case 6:
			m.setCtrlConst(c, d2, 0, 10, m.controlMap.Decay, ts)
		case 7:
			m.setCtrlConst(c, d2, 0, 6, m.controlMap.Sustain, ts)
		case 8:
			m.setCtrlConst(c, d2, 0, 10, m.controlMap.Release, ts)
		}
	}
}

func (m *Midi) noteOff(c *Core, note uint8, ts uint64) {
	if m.curNote == nil || *m.curNote != note {
		return
	}
	m.curNote = nil
	m.sendNote(c, m.controlMap.NoteReceivers, float32(note), 0, false, ts)
}

// NoteEvent is a host-level note event (e.g. from a virtual keyboard
// rather than raw MIDI bytes).
type NoteEvent struct {
	Down     bool
	Note     uint8
	Velocity uint8
}

// DispatchNoteEvent applies a host-level note event the same way
// DispatchMidi applies a MIDI note on/off.
func (m *Midi) DispatchNoteEvent(c *Core, ev NoteEvent, ts uint64) {
	if ev.Down {
		m.curNote = &ev.Note
		m.sendNote(c, m.controlMap.NoteReceivers, float32(ev.Note), float32(ev.Velocity), true, ts)
		return
	}
	m.noteOff(c, ev.Note, ts)
}

// Engine is the application-facing façade combining a Core and its
// Midi dispatcher, mirroring the original engine's split without
// exposing the worker itself.
type Engine struct {
	Core *Core
	Midi *Midi
}

// NewEngine creates a worker, wraps it in a Core, and builds the
// default monosynth patch. Returns the Engine plus the Worker so the
// caller can drive the audio callback loop.
func NewEngine(sampleRate float32, maxNodes int) (*Engine, *worker.Worker) {
	w, tx, rx := worker.Create(maxNodes)
	core := NewCore(sampleRate, tx, rx)
	cm := core.InitMonosynth()
	return &Engine{Core: core, Midi: NewMidi(cm)}, w
}
