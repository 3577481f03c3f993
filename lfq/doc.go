// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lfq provides the lock-free queues that carry data across the
// boundary between the real-time audio thread and everything else.
//
// The audio thread must never allocate, lock, or block. Every type in
// this package is built around that constraint:
//
//   - [Queue]: unbounded intrusive Treiber stack with item recycling.
//     This is the core type — the graph worker uses it both to receive
//     control messages (new nodes, parameter changes, note events) and
//     to return consumed items to the control thread so deallocation
//     never happens on the audio thread.
//   - [SPSC]: bounded Lamport ring buffer for one-way, allocation-free
//     handoffs such as tee-ing rendered chunks to a recorder thread.
//
// # Queue: the control/audio boundary
//
// A [Queue] is a multi-producer multi-consumer stack of recyclable
// items. Construct one with [NewQueue], then split it into a
// [Sender] and [Receiver]:
//
//	q := lfq.NewQueue[Message]()
//	tx, rx := q.Sender(), q.Receiver()
//
// Any number of goroutines may hold a clone of tx and call Send or
// SendItem concurrently — this is how several UI goroutines can each
// push work at the graph worker without synchronizing with each
// other. The audio thread owns rx and calls
// RecvItems once per chunk to drain everything queued since the last
// call, in FIFO order relative to each sender but with no ordering
// guarantee across different senders:
//
//	for item := range rx.RecvItems() {
//	    handle(item.Get())
//	    returnTx.SendItem(item) // recycles the node, no alloc
//	}
//
// RecvItems performs a single atomic swap-to-nil and local list
// reversal — no allocation, no lock, safe to call from the audio
// thread. Recycling a spent item back through the same Queue means a
// long-running Sender amortizes its allocations to zero after warmup.
//
// # Error handling
//
// [SPSC] returns [ErrWouldBlock] when an operation cannot proceed
// immediately — full on Enqueue, empty on Dequeue. This is a
// control-flow signal, not a failure:
//
//	for q.Enqueue(&item) != nil {
//	    backoff.Wait()
//	}
//
// [Queue] never blocks: Send always succeeds (it allocates a new node
// via normal allocation on the sender's side, never the receiver's), and
// RecvItems returns an empty sequence rather than an error when there
// is nothing to drain.
//
// # Capacity
//
// Bounded queue capacity rounds up to the next power of 2 so index
// wrapping can use a mask instead of a modulo. Minimum capacity is 2.
//
// # Race detection
//
// Go's race detector tracks explicit synchronization (mutex, channel,
// WaitGroup) but not happens-before relationships established purely
// through atomic memory ordering. The algorithms here are correct but
// may produce false positives under -race. [RaceEnabled] reports whether
// the race detector is active; the package's own tests do not consult it.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions during CAS backoff.
package lfq
