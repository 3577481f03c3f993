// Package worker drives the graph from the audio thread: it drains
// control messages, runs the graph, and hands back the rendered chunk.
package worker

import (
	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/graph"
	"github.com/wrenaudio/synthio/lfq"
)

// Worker owns the graph and the two queues that connect it to the
// control thread. Every public method except Create is meant to be
// called from the audio thread.
type Worker struct {
	toWorker   lfq.Receiver[graph.Message]
	fromWorker lfq.Sender[graph.Message]
	g          *graph.Graph
	root       uint
	quitting   bool
}

// Create builds a worker with maxSize graph node slots and returns it
// along with the Sender the control thread uses to push messages and
// the Receiver it uses to collect items the worker is done with — a
// displaced node on a NodeInstall message, or the same message it sent
// in the SetParam/Note case — so any deallocation happens off the
// audio thread.
func Create(maxSize int) (*Worker, lfq.Sender[graph.Message], lfq.Receiver[graph.Message]) {
	toQueue := lfq.NewQueue[graph.Message]()
	fromQueue := lfq.NewQueue[graph.Message]()

	w := &Worker{
		toWorker:   toQueue.Receiver(),
		fromWorker: fromQueue.Sender(),
		g:          graph.New(maxSize),
		root:       0,
	}
	return w, toQueue.Sender(), fromQueue.Receiver()
}

// Graph returns the graph the worker drives. Exposed for introspection
// and tests; the audio thread itself has no need to call it, since
// everything it needs comes back through Work's return value.
func (w *Worker) Graph() *graph.Graph { return w.g }

// Quitting reports whether a Quit message has been applied. The worker
// itself takes no action beyond recording this; a host callback checks
// it after each Work call to decide whether to stop driving the stream.
func (w *Worker) Quitting() bool { return w.quitting }

// HandleMessage applies msg directly, bypassing the queue. Intended
// for initializing the graph into a known state before the audio
// thread starts calling Work; allocates one queue node for msg.
func (w *Worker) HandleMessage(msg graph.Message) {
	w.handleItem(lfq.MakeItem(msg))
}

// HandleNode is shorthand for HandleMessage(graph.NodeInstall{...}).
func (w *Worker) HandleNode(ix uint, n *graph.Node) {
	w.HandleMessage(graph.NodeInstall{Ix: ix, Node: n})
}

// handleItem applies the message carried by item and decides what, if
// anything, goes back to the control thread. For a NodeInstall, the
// displaced node is written back into the very same item (no new
// allocation) before it is sent onward; for SetParam/Note, the item
// that carried the message is recycled back unchanged.
func (w *Worker) handleItem(item lfq.Item[graph.Message]) {
	switch msg := item.Get().(type) {
	case graph.NodeInstall:
		old := w.g.Replace(msg.Ix, msg.Node)
		if old != nil {
			msg.Node.Module.Migrate(old.Module)
		}
		item.Set(graph.NodeInstall{Ix: msg.Ix, Node: old})
	case graph.SetParam:
		w.g.GetModule(msg.Ix).SetParam(msg.ParamIx, msg.Val, msg.Timestamp)
	case graph.Note:
		for _, ix := range msg.Ixs {
			w.g.GetModule(ix).HandleNote(msg.MidiNum, msg.Velocity, msg.On)
		}
	case graph.Quit:
		w.quitting = true
	}
	w.fromWorker.SendItem(item)
}

// Work drains every control message queued since the last call, runs
// the graph, and returns the root node's rendered output buffers.
// Lock-free and allocation-free on the steady-state path.
//
// Messages carrying a timestamp in the future are applied immediately
// rather than deferred to the chunk their timestamp falls in.
func (w *Worker) Work(timestamp uint64) []buffer.Buffer {
	for item := range w.toWorker.RecvItems() {
		w.handleItem(item)
	}
	if w.quitting {
		return w.g.GetOutBufs(w.root)
	}
	w.g.Run(w.root, timestamp)
	return w.g.GetOutBufs(w.root)
}
