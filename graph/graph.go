// Package graph implements the lock-free DAG runner: arena-indexed nodes,
// an iterative topological sort with no per-run allocation, and the
// single-pass execution that fills a root node's output buffers.
package graph

import (
	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/module"
)

// maxCtrl and maxBuf bound the scratch space run_one_module needs per
// call; NewNode panics for a node wired with more inputs than this.
const (
	maxCtrl = 16
	maxBuf  = 16
)

// Sentinel marks the end of the link-array stack/result list used by
// the topological sort, and an absent node index.
const Sentinel = ^uint(0)

// Wire names a single input: the producing node's index and the slot
// within that node's output buffers or control outputs.
type Wire struct {
	NodeIx uint
	SlotIx uint
}

// Node is one slot in the graph: a module plus its input wiring and
// the output storage the module renders into.
type Node struct {
	Module      module.Module
	InBufWiring []Wire
	InCtrlWiring []Wire

	outBufs []buffer.Buffer
	outCtrl []float32
}

// NewNode constructs a Node, sizing its output storage from the
// module's reported output counts.
func NewNode(m module.Module, inBufWiring, inCtrlWiring []Wire) *Node {
	if len(inBufWiring) > maxBuf {
		panic("graph: node has more buffer inputs than maxBuf")
	}
	if len(inCtrlWiring) > maxCtrl {
		panic("graph: node has more control inputs than maxCtrl")
	}
	return &Node{
		Module:       m,
		InBufWiring:  inBufWiring,
		InCtrlWiring: inCtrlWiring,
		outBufs:      make([]buffer.Buffer, m.NBufsOut()),
		outCtrl:      make([]float32, m.NCtrlOut()),
	}
}

type visitState uint8

const (
	notVisited visitState = iota
	pushed
	scanned
)

// Graph is a fixed-capacity arena of nodes addressed by index rather
// than by pointer, so replacing a node is a single slot write and the
// topological sort can reuse pre-allocated scratch arrays run after
// run without touching the heap.
type Graph struct {
	nodes   []*Node
	visited []visitState
	link    []uint

	ctrlScratch [maxCtrl]float32
	bufScratch  [maxBuf]*buffer.Buffer
}

// New creates a graph with maxSize node slots, all initially empty.
func New(maxSize int) *Graph {
	return &Graph{
		nodes:   make([]*Node, maxSize),
		visited: make([]visitState, maxSize),
		link:    make([]uint, maxSize),
	}
}

// Len returns the node-slot capacity.
func (g *Graph) Len() int { return len(g.nodes) }

// GetOutBufs returns the output buffers rendered by the node at ix.
// Panics if ix has no populated node. Lock-free.
func (g *Graph) GetOutBufs(ix uint) []buffer.Buffer {
	n := g.nodes[ix]
	if n == nil {
		panic("graph: GetOutBufs on empty slot")
	}
	return n.outBufs
}

// Replace installs n at slot ix, returning whatever occupied it before
// (nil if the slot was empty). This is a plain pointer swap — the
// Graph itself is only ever touched by the worker that owns it. The
// caller is responsible for routing the returned node back to the
// control thread (wrapped in a [Message] and pushed through a
// recycled queue item) so any deallocation happens off the audio
// thread. Lock-free.
func (g *Graph) Replace(ix uint, n *Node) *Node {
	old := g.nodes[ix]
	g.nodes[ix] = n
	return old
}

func (g *Graph) runOneModule(ix uint, ts uint64) {
	this := g.nodes[ix]

	for i, w := range this.InBufWiring {
		if w.NodeIx == ix {
			panic("graph: node wired to its own output, would alias")
		}
		buf := &g.GetOutBufs(w.NodeIx)[w.SlotIx]
		g.bufScratch[i] = buf
	}
	for i, w := range this.InCtrlWiring {
		g.ctrlScratch[i] = g.nodes[w.NodeIx].outCtrl[w.SlotIx]
	}

	bufIn := g.bufScratch[:len(this.InBufWiring)]
	ctrlIn := g.ctrlScratch[:len(this.InCtrlWiring)]

	if tm, ok := this.Module.(module.TimestampedModule); ok {
		tm.ProcessTS(ctrlIn, this.outCtrl, bufIn, this.outBufs, ts)
	} else {
		this.Module.Process(ctrlIn, this.outCtrl, bufIn, this.outBufs)
	}
}

// topoSort performs an iterative reverse-post-order DFS from root,
// using the pre-allocated link array as both the DFS stack and the
// resulting ordered list — no heap allocation per run. Child visitation
// order is deterministic: buffer wirings, then control wirings, in
// wiring-slice order.
func (g *Graph) topoSort(root uint) uint {
	head, tail := Sentinel, Sentinel

	g.link[root] = Sentinel
	stack := root
	g.visited[root] = pushed

	for stack != Sentinel {
		if g.visited[stack] == pushed {
			g.visited[stack] = scanned
			node := g.nodes[stack]
			visitChild := func(ix uint) {
				if g.visited[ix] == notVisited {
					g.visited[ix] = pushed
					g.link[ix] = stack
					stack = ix
				}
			}
			for _, w := range node.InBufWiring {
				visitChild(w.NodeIx)
			}
			for _, w := range node.InCtrlWiring {
				visitChild(w.NodeIx)
			}
		}
		if g.visited[stack] == scanned {
			next := g.link[stack]

			g.link[stack] = Sentinel
			if head == Sentinel {
				head = stack
			}
			if tail != Sentinel {
				g.link[tail] = stack
			}
			tail = stack

			stack = next
		}
	}
	return head
}

// Run executes every node the root transitively depends on, in
// dependency order, and leaves root's output buffers filled. Designed
// to be lock-free and allocation-free: the only state touched is the
// graph's own pre-sized scratch arrays. ts is passed through to any
// node whose module implements [module.TimestampedModule].
func (g *Graph) Run(root uint, ts uint64) {
	ix := g.topoSort(root)
	for ix != Sentinel {
		g.runOneModule(ix, ts)
		g.visited[ix] = notVisited
		ix = g.link[ix]
	}
}
