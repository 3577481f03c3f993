// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"iter"
	"sync/atomic"

	"code.hybscloud.com/spin"
)

// node is one link in the intrusive singly-linked stack. child points at
// the node pushed before it (or nil at the bottom of the stack).
type node[T any] struct {
	payload T
	child   atomic.Pointer[node[T]]
}

// Item is a handle to a node owned by the caller. The zero Item is not
// usable; obtain one from [MakeItem] or [Receiver.RecvItems].
//
// An Item read from RecvItems should be recycled back through a Sender
// once consumed, via [Sender.SendItem], so the underlying node is
// reused instead of freed — this is what keeps the audio thread's
// control-message path allocation-free after warmup.
type Item[T any] struct {
	n *node[T]
}

// MakeItem allocates a fresh Item holding value. Call this on a
// non-real-time thread; the resulting Item can then be pushed with
// [Sender.SendItem] and, once drained, recycled indefinitely without
// further allocation.
func MakeItem[T any](value T) Item[T] {
	return Item[T]{n: &node[T]{payload: value}}
}

// Get returns the payload.
func (it Item[T]) Get() T { return it.n.payload }

// Set replaces the payload in place.
func (it Item[T]) Set(v T) { it.n.payload = v }

// reverse walks the singly-linked list it heads and returns the head
// of the reversed list, so items originally pushed first are visited
// first. Mirrors the Treiber-stack pop-all-then-reverse pattern: a
// swap-to-nil gives LIFO order, reversal restores FIFO.
func (it Item[T]) reverse() Item[T] {
	var prev *node[T]
	cur := it.n
	for cur != nil {
		next := cur.child.Load()
		cur.child.Store(prev)
		prev = cur
		cur = next
	}
	return Item[T]{n: prev}
}

// Queue is an unbounded multi-producer multi-consumer stack of
// recyclable items, built as an intrusive Treiber stack: pushes race
// via a CAS loop on the head pointer, and a drain is a single atomic
// swap-to-nil followed by an in-place list reversal to recover FIFO
// order. No locks; SendItem makes no allocation, while Send allocates
// one node per call.
type Queue[T any] struct {
	head atomic.Pointer[node[T]]
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Sender returns a handle that can push items onto q. Senders are
// cheap to copy and safe to share across any number of goroutines.
func (q *Queue[T]) Sender() Sender[T] { return Sender[T]{q: q} }

// Receiver returns a handle that can drain q. A Queue is typically
// drained from a single owner (the audio thread calling work once per
// chunk), though concurrent RecvItems calls are themselves safe.
func (q *Queue[T]) Receiver() Receiver[T] { return Receiver[T]{q: q} }

func (q *Queue[T]) pushRaw(n *node[T]) {
	sw := spin.Wait{}
	for {
		head := q.head.Load()
		n.child.Store(head)
		if q.head.CompareAndSwap(head, n) {
			return
		}
		sw.Once()
	}
}

// popAll atomically detaches every item currently on the stack and
// returns them in FIFO push order (oldest first).
func (q *Queue[T]) popAll() Item[T] {
	head := q.head.Swap(nil)
	if head == nil {
		return Item[T]{}
	}
	return Item[T]{n: head}.reverse()
}

// Sender is a cloneable handle for pushing items onto a [Queue].
type Sender[T any] struct {
	q *Queue[T]
}

// Send allocates a new node for value and pushes it. Use this from a
// non-real-time thread that has no recycled Item on hand.
func (s Sender[T]) Send(value T) {
	s.SendItem(MakeItem(value))
}

// SendItem pushes an already-allocated item, making no allocation.
// This is the path the audio thread uses to return a consumed Item
// from [Receiver.RecvItems] back to its originating Sender.
func (s Sender[T]) SendItem(it Item[T]) {
	s.q.pushRaw(it.n)
}

// Receiver is a handle for draining a [Queue].
type Receiver[T any] struct {
	q *Queue[T]
}

// RecvItems drains every item pushed since the last drain and yields
// them in FIFO order, oldest first. Does not allocate; safe to call
// from the audio thread. Range over the result with a for-range loop:
//
//	for item := range rx.RecvItems() {
//	    handle(item)
//	}
func (r Receiver[T]) RecvItems() iter.Seq[Item[T]] {
	head := r.q.popAll()
	return func(yield func(Item[T]) bool) {
		cur := head.n
		for cur != nil {
			if !yield(Item[T]{n: cur}) {
				return
			}
			cur = cur.child.Load()
		}
	}
}
