// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq_test

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/wrenaudio/synthio/lfq"
)

func TestQueueSendRecvFIFO(t *testing.T) {
	q := lfq.NewQueue[int]()
	tx, rx := q.Sender(), q.Receiver()

	for i := 0; i < 10; i++ {
		tx.Send(i)
	}

	var got []int
	for it := range rx.RecvItems() {
		got = append(got, it.Get())
	}
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestQueueEmptyDrainYieldsNothing(t *testing.T) {
	q := lfq.NewQueue[string]()
	rx := q.Receiver()

	n := 0
	for range rx.RecvItems() {
		n++
	}
	require.Zero(t, n)
}

// TestQueueRecycleIsAllocationFree exercises the pattern the worker uses
// each chunk: drain, consume, push the same Item back through a Sender.
// The payload survives the round trip unmodified unless Set is called.
func TestQueueRecycleIsAllocationFree(t *testing.T) {
	q := lfq.NewQueue[int]()
	tx, rx := q.Sender(), q.Receiver()

	tx.Send(7)
	var recycled lfq.Item[int]
	for it := range rx.RecvItems() {
		require.Equal(t, 7, it.Get())
		recycled = it
	}

	recycled.Set(9)
	tx.SendItem(recycled)

	var got int
	for it := range rx.RecvItems() {
		got = it.Get()
	}
	require.Equal(t, 9, got)
}

// TestQueueConcurrentSendersFIFOPerProducer checks the invariant that
// within a single producer's sequence of sends, RecvItems preserves
// relative order even when many producers push concurrently.
func TestQueueConcurrentSendersFIFOPerProducer(t *testing.T) {
	const numProducers = 8
	const itemsPerProducer = 200

	q := lfq.NewQueue[int]()
	tx, rx := q.Sender(), q.Receiver()

	var wg sync.WaitGroup
	for p := 0; p < numProducers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < itemsPerProducer; i++ {
				tx.Send(p*100000 + i)
			}
		}(p)
	}
	wg.Wait()

	perProducer := make(map[int][]int, numProducers)
	total := 0
	for it := range rx.RecvItems() {
		v := it.Get()
		p, seq := v/100000, v%100000
		perProducer[p] = append(perProducer[p], seq)
		total++
	}
	require.Equal(t, numProducers*itemsPerProducer, total)

	for p := 0; p < numProducers; p++ {
		seqs := perProducer[p]
		require.Len(t, seqs, itemsPerProducer)
		sorted := append([]int(nil), seqs...)
		sort.Ints(sorted)
		require.Equal(t, sorted, seqs, "producer %d: FIFO order violated", p)
	}
}

// TestQueueRapidFIFO is a property test: for any sequence of sends from a
// single producer interleaved with drains, every drained batch is a
// contiguous, order-preserving run of what was sent but not yet
// drained, so the concatenated batches equal the full send sequence.
func TestQueueRapidFIFO(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		q := lfq.NewQueue[int]()
		tx, rx := q.Sender(), q.Receiver()

		n := rapid.IntRange(0, 200).Draw(rt, "n")
		var sent, got []int
		for i := 0; i < n; i++ {
			tx.Send(i)
			sent = append(sent, i)
			if rapid.Bool().Draw(rt, "drainNow") {
				for it := range rx.RecvItems() {
					got = append(got, it.Get())
				}
			}
		}
		for it := range rx.RecvItems() {
			got = append(got, it.Get())
		}

		if len(sent) == 0 {
			sent = nil
		}
		if len(got) == 0 {
			got = nil
		}
		require.Equal(rt, sent, got)
	})
}
