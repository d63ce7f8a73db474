package epoch

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestDomain_PinUnpin(t *testing.T) {
	d := NewDomain()
	g := d.Pin()
	if g == nil {
		t.Fatal("Pin returned nil")
	}
	g.Unpin()
}

// TestDomain_DeferDestroyWaitsForOlderGuards asserts the core reclamation
// ordering guarantee: a DeferDestroy callback scheduled while another guard
// is still pinned must not run until that guard is released, no matter how
// many times Flush is called in between.
func TestDomain_DeferDestroyWaitsForOlderGuards(t *testing.T) {
	d := NewDomain()

	holder := d.Pin() // pins epoch 0 and never lets go until told to

	var ran atomic.Bool
	producer := d.Pin()
	producer.DeferDestroy(func() { ran.Store(true) })
	producer.Unpin()

	for i := 0; i < 8; i++ {
		d.Flush()
	}
	if ran.Load() {
		t.Fatal("DeferDestroy callback ran while an older guard was still pinned")
	}

	holder.Unpin()

	for i := 0; i < numEpochs+2 && !ran.Load(); i++ {
		g := d.Pin()
		g.Unpin()
		d.Flush()
	}
	if !ran.Load() {
		t.Fatal("DeferDestroy callback never ran after the blocking guard was released")
	}
}

func TestDomain_ConcurrentPinUnpinDoesNotRace(t *testing.T) {
	d := NewDomain()
	var wg sync.WaitGroup
	var counter atomic.Int64

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 2000; j++ {
				g := d.Pin()
				g.DeferDestroy(func() { counter.Add(1) })
				g.Unpin()
				d.Flush()
			}
		}()
	}
	wg.Wait()

	for i := 0; i < numEpochs+2; i++ {
		g := d.Pin()
		g.Unpin()
		d.Flush()
	}

	if counter.Load() == 0 {
		t.Fatal("no deferred callbacks ever ran across concurrent pin/unpin churn")
	}
}
