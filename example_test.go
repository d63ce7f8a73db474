package msqueue_test

import (
	"fmt"
	"sync"

	msqueue "github.com/joeycumines/go-msqueue"
)

// Demonstrates pushing from multiple producers and draining with a blocking
// Pop, the pattern most callers reach for: Push never blocks, Pop always
// returns something eventually as long as some producer is still running.
func ExampleQueue() {
	q := msqueue.New[int]()

	const numProducers = 4
	const perProducer = 25

	var producers sync.WaitGroup
	producers.Add(numProducers)
	for p := 0; p < numProducers; p++ {
		p := p
		go func() {
			defer producers.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(p*perProducer + i)
			}
		}()
	}

	total := numProducers * perProducer
	sum := 0
	for i := 0; i < total; i++ {
		sum += q.Pop()
	}
	producers.Wait()

	// Sum of 0..(total-1), order-independent.
	fmt.Println(sum == total*(total-1)/2)

	//output:
	//true
}
