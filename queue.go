package msqueue

import (
	"github.com/joeycumines/go-msqueue/internal/cacheline"
	"github.com/joeycumines/go-msqueue/internal/epoch"
)

// Queue is a multi-producer/multi-consumer unbounded FIFO queue. It is
// lock-free for Push and TryPop; Pop may park the calling goroutine. The
// zero value is not usable; construct one with New.
//
// Queue is safe to share across goroutines when T is safe to transfer
// across goroutines; T itself need not support concurrent internal access,
// since the queue never lets two goroutines observe the same value: a
// value handed to one consumer is never visible to another.
//
// Non-goals: bounded capacity, priority or fairness among blocked
// consumers, preservation of arrival order across a data/blocked mode
// transition, and cancellation or timeout on Pop.
//
// Note on memory ordering: sync/atomic does not expose anything weaker than
// sequential consistency, which is stronger than this algorithm strictly
// requires; the ordering comes for free rather than needing explicit
// acquire/release annotations.
type Queue[T any] struct { // betteralign:ignore
	head      cacheline.PaddedPointer[node[T]]
	tail      cacheline.PaddedPointer[node[T]]
	reclaim   *epoch.Domain
	spinLimit int
}

// New creates an empty Queue. Construction allocates a single sentinel node
// and publishes it to both head and tail; this happens before the Queue is
// returned, so no synchronization is needed for it.
func New[T any](opts ...Option) *Queue[T] {
	cfg := config{spinLimit: defaultSpinLimit}
	for _, opt := range opts {
		opt(&cfg)
	}

	q := &Queue[T]{
		reclaim:   epoch.NewDomain(),
		spinLimit: cfg.spinLimit,
	}
	var zero T
	sentinel := newDataNode[T](zero)
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// pushInternal attempts to link n onto onto's next pointer. ok reports
// whether it succeeded; on failure, n is returned to the caller for another
// attempt (onto the new tail snapshot the caller will take on its next loop
// iteration).
func (q *Queue[T]) pushInternal(onto, n *node[T]) (ok bool, returned *node[T]) {
	next := onto.next.Load()
	if next != nil {
		// onto was not the true tail; help move tail forward and let the
		// caller retry from a fresh snapshot.
		q.tail.CompareAndSwap(onto, next)
		return false, n
	}
	if onto.next.CompareAndSwap(nil, n) {
		// Best-effort: move tail up to the node we just linked. Failure is
		// harmless; some other operation will do it instead.
		q.tail.CompareAndSwap(onto, n)
		return true, nil
	}
	return false, n
}

// popStatus is the outcome of a single attempt to unlink a data node.
type popStatus uint8

const (
	popSuccess popStatus = iota
	popEmpty
	popRaced
)

// popInternal attempts to unlink the first data node.
func (q *Queue[T]) popInternal(guard *epoch.Guard) (popStatus, T) {
	var zero T
	headSnap := q.head.Load()
	next := headSnap.next.Load()
	if next == nil || !next.isData() {
		return popEmpty, zero
	}
	if !q.head.CompareAndSwap(headSnap, next) {
		return popRaced, zero
	}

	// Exactly one goroutine reaches this point for this CAS; extract the
	// value before anything else.
	v := next.value
	// next is now the new sentinel; drop its reference to v so a large or
	// resource-holding T isn't kept reachable by the queue after it has
	// been handed to the caller.
	next.value = zero
	guard.DeferDestroy(func() { headSnap.next.Store(nil) })
	return popSuccess, v
}

// Push appends v to the back of the queue, or, if the queue is in blocked
// mode, hands v directly to the longest-published waiting consumer and
// wakes it.
func (q *Queue[T]) Push(v T) {
	guard := q.reclaim.Pin()
	defer guard.Unpin()

	var cached *node[T]

	for {
		tailSnap := q.tail.Load()
		headSnap := q.head.Load()

		if tailSnap.isData() || headSnap == tailSnap {
			// Data mode (or sentinel-only, which counts as either mode).
			n := cached
			if n == nil {
				n = newDataNode[T](v)
			}
			ok, back := q.pushInternal(tailSnap, n)
			if ok {
				q.reclaim.Flush()
				return
			}
			cached = back
			continue
		}

		// Blocked mode: attempt to hand v directly to a waiter. If mode
		// flipped to blocked while a node was cached from a failed data-mode
		// attempt, recover the item from it and discard the node.
		if cached != nil {
			v = cached.value
			cached = nil
		}

		blocked := headSnap.next.Load()
		if blocked == nil || blocked.isData() {
			// Raced with a concurrent mode flip; retry from a fresh snapshot.
			continue
		}

		if q.head.CompareAndSwap(headSnap, blocked) {
			blocked.waiter.deliver(v)
			guard.DeferDestroy(func() { headSnap.next.Store(nil) })
			q.reclaim.Flush()
			return
		}
	}
}

// TryPop attempts to dequeue a value without blocking. It returns false if
// the queue is observed empty or in blocked mode; it never installs a
// waiter.
func (q *Queue[T]) TryPop() (T, bool) {
	guard := q.reclaim.Pin()
	defer guard.Unpin()

	for {
		status, v := q.popInternal(guard)
		switch status {
		case popSuccess:
			q.reclaim.Flush()
			return v, true
		case popEmpty:
			var zero T
			return zero, false
		default: // popRaced
			continue
		}
	}
}

// Pop dequeues a value, blocking the calling goroutine if the queue is
// empty until a Push hands one to it. It proceeds in three phases: a
// bounded lock-free fast path, publishing a waiter node, then parking.
func (q *Queue[T]) Pop() T {
	guard := q.reclaim.Pin()

	// Phase 1: bounded fast path, avoiding a waiter allocation entirely in
	// the common case where data is already available.
fastPath:
	for i := 0; i < q.spinLimit; i++ {
		status, v := q.popInternal(guard)
		switch status {
		case popSuccess:
			guard.Unpin()
			q.reclaim.Flush()
			return v
		case popEmpty:
			break fastPath
		default: // popRaced: retry immediately
		}
	}

	// Phase 2: publish a waiter node.
	w := newWaiter[T]()
	blockedNode := newBlockedNode[T](w)

	for {
		status, v := q.popInternal(guard)
		if status == popSuccess {
			guard.Unpin()
			q.reclaim.Flush()
			return v
		}
		if status == popRaced {
			continue
		}

		tailSnap := q.tail.Load()
		headSnap := q.head.Load()
		if !tailSnap.isData() || tailSnap == headSnap {
			// Blocked mode, or sentinel-only: safe to publish our waiter
			// onto this snapshot without breaking mode uniformity.
			ok, back := q.pushInternal(tailSnap, blockedNode)
			if ok {
				break
			}
			blockedNode = back
			continue
		}
		// tailSnap carries data and isn't the sentinel: the queue re-entered
		// data mode since our last popInternal; loop and try again. headSnap
		// above was already re-sampled for this iteration, so no separate
		// re-check is needed before retrying.
	}

	// Phase 3: release the epoch guard before parking, then wait for
	// delivery, tolerating spurious wake.
	guard.Unpin()
	return w.wait()
}

// IsEmpty reports whether the queue currently has no data available to pop.
// A queue in blocked mode (consumers waiting, no data) reports true, since
// no data can be dequeued from it. Repeated calls never consume anything.
func (q *Queue[T]) IsEmpty() bool {
	head := q.head.Load()
	next := head.next.Load()
	return next == nil || !next.isData()
}

// Close drains the queue, discarding any remaining values. Go's garbage
// collector reclaims the queue's nodes regardless of whether Close is ever
// called; Close exists only so that a caller relying on side effects of a T
// being dropped (e.g. closing a file handle) observes them deterministically
// rather than whenever the GC gets to it.
func (q *Queue[T]) Close() {
	for {
		if _, ok := q.TryPop(); !ok {
			return
		}
	}
}
