package epoch

import (
	"sync"
	"sync/atomic"

	"github.com/joeycumines/go-msqueue/internal/cacheline"
)

// numEpochs is the size of the garbage-bag ring. Three is the minimum that
// makes the "advance, then reclaim two epochs back" argument sound: once the
// global epoch advances to e, nothing can still be pinned at e-2, because
// advancement to e required every pinned guard to have caught up to e-1.
const numEpochs = 3

// slot is one entry in a Domain's guard registry. Cache-padded the same way
// eventloop/state.go's FastState pads a single hot atomic word, since slots
// for concurrently-pinning goroutines are adjacent in the backing slice and
// would otherwise false-share.
type slot struct { // betteralign:ignore
	_      [cacheline.Size]byte
	pinned atomic.Uint64 // 0 = unpinned; otherwise (epoch + 1)
	_      [cacheline.Size - 8]byte
}

// Domain owns one reclamation epoch and its garbage bags. A msqueue.Queue
// owns exactly one Domain for its own nodes.
type Domain struct {
	global atomic.Uint64

	mu    sync.Mutex
	slots []*slot
	free  []*slot

	garbageMu sync.Mutex
	garbage   [numEpochs][]func()
}

// NewDomain creates a Domain at epoch 0 with no pinned guards.
func NewDomain() *Domain {
	return &Domain{}
}

func (d *Domain) acquireSlot() *slot {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := len(d.free); n > 0 {
		s := d.free[n-1]
		d.free = d.free[:n-1]
		return s
	}
	s := &slot{}
	d.slots = append(d.slots, s)
	return s
}

func (d *Domain) releaseSlot(s *slot) {
	d.mu.Lock()
	d.free = append(d.free, s)
	d.mu.Unlock()
}

// Pin marks the calling goroutine as observing the Domain's current epoch,
// preventing that epoch's garbage bag from being reclaimed until Unpin is
// called. Queue's Push and TryPop pin for their duration; Pop pins until it
// has either popped a value or published its waiter. IsEmpty does not pin.
func (d *Domain) Pin() *Guard {
	s := d.acquireSlot()
	e := d.global.Load()
	s.pinned.Store(e + 1)
	return &Guard{domain: d, slot: s, epoch: e}
}

// Flush makes a best-effort attempt to advance the global epoch by one and
// reclaim the oldest now-unreachable garbage bag. It never waits for a
// pinned guard to be released (it only briefly takes the Domain's internal
// locks) and is safe to call opportunistically; failure to advance on any
// given call is harmless, since the next call tries again.
func (d *Domain) Flush() {
	d.mu.Lock()
	cur := d.global.Load()
	for _, s := range d.slots {
		if p := s.pinned.Load(); p != 0 && p-1 != cur {
			d.mu.Unlock()
			return
		}
	}
	d.mu.Unlock()

	newGlobal := cur + 1
	if !d.global.CompareAndSwap(cur, newGlobal) {
		return
	}
	if newGlobal < numEpochs-1 {
		// Not enough advancement yet for any bag to be provably unreachable.
		return
	}

	reclaimIdx := (newGlobal - (numEpochs - 1)) % numEpochs
	d.garbageMu.Lock()
	bag := d.garbage[reclaimIdx]
	d.garbage[reclaimIdx] = nil
	d.garbageMu.Unlock()

	for _, fn := range bag {
		fn()
	}
}
