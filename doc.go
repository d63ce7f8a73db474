// Package msqueue provides Queue, a multi-producer/multi-consumer unbounded
// FIFO queue that is lock-free for Push and TryPop, and additionally
// provides a blocking Pop that parks the calling goroutine until a value is
// handed to it directly by a producer.
//
// The design is a Michael-Scott singly-linked-list queue extended with a
// dual-mode discipline: a queue with no data available may instead hold a
// list of waiting consumers, each woken by the next producer to call Push.
//
// Queue makes no bounded-capacity, fairness, or cancellation guarantees; see
// the package-level documentation on Queue for the full contract.
package msqueue
