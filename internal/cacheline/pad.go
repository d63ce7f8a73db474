// Package cacheline provides cache-line padding for hot atomic fields shared
// between producer and consumer goroutines.
//
// Grounded on eventloop/sizeof.go and eventloop/state.go's FastState, which
// pad a single atomic.Uint64 to a full cache line to prevent false sharing.
// PaddedPointer generalizes that to an atomic.Pointer[T], as used by
// msqueue.Queue's head and tail fields.
package cacheline

import "sync/atomic"

// Size is the assumed size of a CPU cache line in bytes, matching
// eventloop/sizeof.go's sizeOfCacheLine.
const Size = 128

// sizeOfPointer is the size of an atomic.Pointer on 64-bit platforms (one
// 8-byte word), matching eventloop/sizeof.go's sizeOfAtomicUint64
// convention. On 32-bit platforms the pointer is 4 bytes, so the trailing pad
// is 4 bytes more than needed.
const sizeOfPointer = 8

// PaddedPointer wraps an atomic.Pointer[T], padded on both sides so that it
// never shares a cache line with an adjacent PaddedPointer. Used for head and
// tail in msqueue.Queue, which are written by disjoint sets of goroutines
// (producers mostly touch tail, consumers mostly touch head) and would
// otherwise false-share a line under contention.
type PaddedPointer[T any] struct { // betteralign:ignore
	_ [Size]byte
	p atomic.Pointer[T]
	_ [Size - sizeOfPointer]byte
}

// Load returns the current value.
func (p *PaddedPointer[T]) Load() *T {
	return p.p.Load()
}

// Store sets the value with no ordering guarantee beyond that provided by
// atomic.Pointer.Store (release). Only used during construction, before the
// queue is shared.
func (p *PaddedPointer[T]) Store(v *T) {
	p.p.Store(v)
}

// CompareAndSwap atomically sets the value to new if it currently equals
// old, returning whether it succeeded.
func (p *PaddedPointer[T]) CompareAndSwap(old, new *T) bool {
	return p.p.CompareAndSwap(old, new)
}
