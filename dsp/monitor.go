package dsp

import (
	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/lfq"
	"github.com/wrenaudio/synthio/module"
)

const (
	monitorPoolSize = 256
	monitorBufSize  = 256
)

// Monitor is a pass-through node — its output equals its input — that
// additionally tees the signal out to a UI-thread consumer through a
// dedicated, paired [lfq.Queue]. A pool of pre-allocated []float32
// items is recycled through the same queue pair, so once warmed up the
// audio thread never allocates: if the pool runs dry (the UI thread
// has fallen behind), Monitor simply drops the data for that chunk
// rather than allocate or block.
type Monitor struct {
	module.Base
	toMonitor   lfq.Receiver[[]float32]
	fromMonitor lfq.Sender[[]float32]
	pool        []lfq.Item[[]float32]
	cur         lfq.Item[[]float32]
	curValid    bool
}

// NewMonitor creates a monitor node and the Sender/Receiver pair the
// UI thread uses to drain rendered audio and return spent buffers.
func NewMonitor() (*Monitor, lfq.Sender[[]float32], lfq.Receiver[[]float32]) {
	toQueue := lfq.NewQueue[[]float32]()
	fromQueue := lfq.NewQueue[[]float32]()

	tx := toQueue.Sender()
	for i := 0; i < monitorPoolSize; i++ {
		tx.Send(make([]float32, 0, monitorBufSize))
	}

	m := &Monitor{
		toMonitor:   toQueue.Receiver(),
		fromMonitor: fromQueue.Sender(),
		pool:        make([]lfq.Item[[]float32], 0, monitorPoolSize),
	}
	return m, tx, fromQueue.Receiver()
}

func (*Monitor) NBufsOut() int { return 1 }

func (m *Monitor) Process(_ []float32, _ []float32, bufIn []*buffer.Buffer, bufOut []buffer.Buffer) {
	// Refill the local pool from whatever the UI thread has returned
	// since the last chunk before trying to acquire one: on the very
	// first call nothing has been pulled out of the queue yet, so
	// acquiring before draining would see an empty pool even though
	// every pre-seeded item is sitting in the queue waiting. Draining
	// is non-allocating: append only grows within the pool slice's
	// already-reserved capacity.
	for it := range m.toMonitor.RecvItems() {
		if len(m.pool) < cap(m.pool) {
			m.pool = append(m.pool, it)
		}
	}

	if !m.curValid && len(m.pool) > 0 {
		m.cur = m.pool[len(m.pool)-1]
		m.pool = m.pool[:len(m.pool)-1]
		m.curValid = true
	}

	in := bufIn[0].Get()
	copy(bufOut[0].GetMut()[:], in[:])

	if !m.curValid {
		return
	}

	buf := m.cur.Get()
	extended := append(buf, in[:]...)
	m.cur.Set(extended)

	// Ship once another chunk wouldn't fit, rather than waiting for an
	// actual overflow: this keeps every append within the buffer's
	// original capacity, so accumulating never reallocates.
	if len(extended)+len(in) > cap(buf) {
		m.fromMonitor.SendItem(m.cur)
		m.curValid = false
	}
}
