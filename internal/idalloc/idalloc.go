// Package idalloc allocates small, reusable graph node ids for the
// control thread. It never touches the graph or the audio thread —
// it only decides which id a control-thread-issued node message
// should carry.
package idalloc

// Allocator hands out dense non-negative ids, preferring to reuse a
// freed id over growing the highwater mark.
type Allocator struct {
	free      []uint
	highwater uint
}

// New creates an empty allocator; the first Alloc call returns 0.
func New() *Allocator {
	return &Allocator{}
}

// Alloc returns a freed id if one is available, otherwise issues the
// next unused id and advances the highwater mark.
func (a *Allocator) Alloc() uint {
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		return id
	}
	id := a.highwater
	a.highwater++
	return id
}

// Free returns id to the pool. If id is the highest id issued,
// the highwater mark retracts instead of growing the free list, so
// alloc/free churn at the tail of the id space doesn't leak slots.
func (a *Allocator) Free(id uint) {
	if id == a.highwater-1 {
		a.highwater = id
		return
	}
	a.free = append(a.free, id)
}

// Reserve claims id ahead of time so a later Alloc never issues it.
// Panics if id is already live (neither free nor beyond the
// highwater mark).
func (a *Allocator) Reserve(id uint) {
	if id >= a.highwater {
		for i := a.highwater; i < id; i++ {
			a.free = append(a.free, i)
		}
		a.highwater = id + 1
		return
	}
	for i, f := range a.free {
		if f == id {
			a.free = append(a.free[:i], a.free[i+1:]...)
			return
		}
	}
	panic("idalloc: attempting to reserve an id already allocated")
}
