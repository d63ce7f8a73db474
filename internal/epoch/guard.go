package epoch

import "fmt"

// Guard is a pinned reclamation epoch, returned by Domain.Pin. It must be
// released with Unpin once the operation that pinned it has finished
// touching any pointer it loaded from the queue: such a pointer is only
// valid for as long as the guard that observed it lives.
type Guard struct {
	domain   *Domain
	slot     *slot
	epoch    uint64
	released bool
}

// DeferDestroy schedules fn to run once no guard pinned at or before this
// Guard's epoch can still be live, i.e. once the reclamation epoch has
// advanced past it. fn typically clears references held by a retired node
// rather than freeing memory outright, since the garbage collector owns
// that half of the job.
func (g *Guard) DeferDestroy(fn func()) {
	if g.released {
		panic(fmt.Errorf("epoch: DeferDestroy: %w", ErrGuardReleased))
	}
	idx := g.epoch % numEpochs
	g.domain.garbageMu.Lock()
	g.domain.garbage[idx] = append(g.domain.garbage[idx], fn)
	g.domain.garbageMu.Unlock()
}

// Unpin releases the pin. The Guard must not be used afterward; calling
// Unpin a second time indicates a caller bug rather than a harmless no-op,
// since it would let the reclamation epoch advance past garbage this guard
// was still meant to be protecting.
func (g *Guard) Unpin() {
	if g.released {
		panic(fmt.Errorf("epoch: Unpin: %w", ErrGuardReleased))
	}
	g.released = true
	g.slot.pinned.Store(0)
	g.domain.releaseSlot(g.slot)
}
