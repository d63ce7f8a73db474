package msqueue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Progress: if a Push runs to completion with no concurrent
// consumer, a subsequent single TryPop returns a value.
func TestInvariant_ProgressAfterPush(t *testing.T) {
	q := New[int]()
	q.Push(1)
	_, ok := q.TryPop()
	require.True(t, ok, "expected TryPop to succeed immediately after a completed Push")
}

// Mode uniformity. At a quiescent point, every non-sentinel reachable node
// shares one payload kind — either all data (after pushes with no pops), or
// all blocked (after parking consumers with no data pushed).
func TestInvariant_ModeUniformity(t *testing.T) {
	q := New[int]()
	for i := 0; i < 5; i++ {
		q.Push(i)
	}
	assertUniformMode(t, q, kindData)
	for i := 0; i < 5; i++ {
		_, ok := q.TryPop()
		require.True(t, ok, "expected a value")
	}

	const numConsumers = 4
	var wg sync.WaitGroup
	wg.Add(numConsumers)
	for i := 0; i < numConsumers; i++ {
		go func() {
			defer wg.Done()
			q.Pop()
		}()
	}
	for countBlockedWaiters(q) < numConsumers {
	}
	assertUniformMode(t, q, kindBlocked)

	for i := 0; i < numConsumers; i++ {
		q.Push(i)
	}
	wg.Wait()
}

func assertUniformMode[T any](t *testing.T, q *Queue[T], want kind) {
	t.Helper()
	n := q.head.Load().next.Load()
	for n != nil {
		require.Equal(t, want, n.kind, "expected every reachable non-sentinel node to share one payload kind")
		n = n.next.Load()
	}
}

// head is never nil, and tail is reachable from head within a small number
// of hops after a quiescent single-threaded sequence of operations.
func TestInvariant_TailReachableFromHead(t *testing.T) {
	q := New[int]()
	for i := 0; i < 10; i++ {
		q.Push(i)
	}
	for i := 0; i < 3; i++ {
		q.TryPop()
	}

	head := q.head.Load()
	require.NotNil(t, head, "head must never be nil")
	tail := q.tail.Load()
	n := head
	for hops := 0; ; hops++ {
		if n == tail {
			return
		}
		next := n.next.Load()
		require.NotNilf(t, next, "tail not reachable from head within %d hops", hops)
		require.LessOrEqualf(t, hops, 1000, "tail unreachable from head within a sane number of hops")
		n = next
	}
}
