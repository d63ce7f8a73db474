// Command msqbench drives Queue under SPSC/SPMC/MPMC load patterns,
// reporting throughput and hand-off latency. It is not part of msqueue's
// public API; it exists to exercise the library the way a caller
// benchmarking it in production would.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	msqueue "github.com/joeycumines/go-msqueue"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"go.uber.org/automaxprocs/maxprocs"
)

// Standard errors, returned when flag values don't describe a runnable
// benchmark.
var (
	ErrNonPositiveProducers   = errors.New("msqbench: producers must be positive")
	ErrNonPositiveConsumers   = errors.New("msqbench: consumers must be positive")
	ErrNonPositivePerProducer = errors.New("msqbench: per-producer must be positive")
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "msqbench:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("msqbench", flag.ContinueOnError)
	producers := fs.Int("producers", 4, "number of concurrent Push goroutines")
	consumers := fs.Int("consumers", 4, "number of concurrent Pop goroutines")
	perProducer := fs.Int("per-producer", 250_000, "number of values each producer pushes")
	blocking := fs.Bool("blocking", true, "use blocking Pop instead of TryPop for consumers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *producers <= 0 {
		return fmt.Errorf("parse flags: %w", ErrNonPositiveProducers)
	}
	if *consumers <= 0 {
		return fmt.Errorf("parse flags: %w", ErrNonPositiveConsumers)
	}
	if *perProducer <= 0 {
		return fmt.Errorf("parse flags: %w", ErrNonPositivePerProducer)
	}

	logger := stumpy.L.New(stumpy.L.WithWriter(logiface.WriterFunc[*stumpy.Event](func(e *stumpy.Event) error {
		_, err := os.Stdout.Write(append(e.Bytes(), '\n'))
		return err
	})))

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, a ...any) {
		logger.Info().Log(fmt.Sprintf(format, a...))
	}))
	if err != nil {
		logger.Err().Err(err).Log("maxprocs.Set failed; continuing with the runtime default")
	} else {
		defer undo()
	}

	q := msqueue.New[timedValue]()
	total := *producers * *perProducer

	var producerWg sync.WaitGroup
	producerWg.Add(*producers)
	for p := 0; p < *producers; p++ {
		go func() {
			defer producerWg.Done()
			for i := 0; i < *perProducer; i++ {
				q.Push(timedValue{sentAt: time.Now()})
			}
		}()
	}

	latencies := make([]time.Duration, total)
	var drained int64
	var consumerWg sync.WaitGroup
	consumerWg.Add(*consumers)
	start := time.Now()
	for c := 0; c < *consumers; c++ {
		go func() {
			defer consumerWg.Done()
			for {
				idx := atomic.AddInt64(&drained, 1) - 1
				if idx >= int64(total) {
					return
				}
				var v timedValue
				if *blocking {
					v = q.Pop()
				} else {
					for {
						got, ok := q.TryPop()
						if ok {
							v = got
							break
						}
					}
				}
				latencies[idx] = time.Since(v.sentAt)
			}
		}()
	}

	producerWg.Wait()
	consumerWg.Wait()
	elapsed := time.Since(start)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	p50 := latencies[len(latencies)*50/100]
	p99 := latencies[len(latencies)*99/100]

	logger.Info().
		Int(`total`, total).
		Int(`producers`, *producers).
		Int(`consumers`, *consumers).
		Int64(`elapsed_ms`, elapsed.Milliseconds()).
		Int64(`throughput_per_sec`, int64(float64(total)/elapsed.Seconds())).
		Int64(`p50_us`, p50.Microseconds()).
		Int64(`p99_us`, p99.Microseconds()).
		Log("run complete")

	return nil
}

type timedValue struct {
	sentAt time.Time
}
