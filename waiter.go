package msqueue

import (
	"sync/atomic"

	"github.com/joeycumines/go-msqueue/internal/park"
)

// waiter is a record owned by a blocked consumer's Pop call, holding a slot
// for the delivered value and a ready flag that survives spurious wake. The
// queue holds only a back-reference to it, via a Blocked node; a waiter is
// never touched by any goroutine other than its owner and the one producer
// that wins the hand-off race for its node.
type waiter[T any] struct {
	token *park.Token
	value T
	ready atomic.Bool
}

func newWaiter[T any]() *waiter[T] {
	return &waiter[T]{token: park.NewToken()}
}

// deliver hands v to the waiting consumer and wakes it. Writing value before
// the release-store of ready, and the consumer's acquire-load of ready
// before reading value, is what makes the hand-off safe without a lock.
func (w *waiter[T]) deliver(v T) {
	w.value = v
	w.ready.Store(true)
	w.token.Unpark()
}

// wait blocks until deliver has run, tolerating any spurious wake of the
// underlying park.Token by re-checking ready.
func (w *waiter[T]) wait() T {
	for !w.ready.Load() {
		w.token.Park()
	}
	w.token.Close()
	return w.value
}
