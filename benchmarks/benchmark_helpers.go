package benchmarks

import (
	"context"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/utkarsh5026/slotpool/pool"
)

// threadConfig defines a benchmark configuration for a worker thread mode
type threadConfig struct {
	name string
	opts []pool.Option
}

// getAllThreadModes returns every way a slot worker can be scheduled
func getAllThreadModes(workerCount int) []threadConfig {
	return []threadConfig{
		{
			name: "Goroutine",
			opts: []pool.Option{pool.WithWorkerCount(workerCount), pool.WithMinWorkers(1)},
		},
		{
			name: "DedicatedThread",
			opts: []pool.Option{pool.WithWorkerCount(workerCount), pool.WithMinWorkers(1), pool.WithDedicatedThreads()},
		},
		{
			name: "Affinity",
			opts: []pool.Option{pool.WithWorkerCount(workerCount), pool.WithMinWorkers(1), pool.WithThreadAffinity()},
		},
	}
}

// waitStrategy is one way of blocking until a round has drained
type waitStrategy struct {
	name string
	wait func(p *pool.SlotPool[int]) error
}

func getWaitStrategies() []waitStrategy {
	return []waitStrategy{
		{
			name: "WaitIdle",
			wait: func(p *pool.SlotPool[int]) error { return p.WaitIdle(context.Background()) },
		},
		{
			name: "SpinUntilIdle",
			wait: func(p *pool.SlotPool[int]) error { return p.SpinUntilIdle(context.Background()) },
		},
		{
			name: "IsIdleBusyLoop",
			wait: func(p *pool.SlotPool[int]) error {
				for !p.IsIdle() {
				}
				return nil
			},
		},
	}
}

// runThreadModeBenchmark runs a benchmark function for all thread modes
func runThreadModeBenchmark(b *testing.B, modes []threadConfig, benchFunc func(b *testing.B, m threadConfig)) {
	for _, m := range modes {
		b.Run(m.name, func(b *testing.B) {
			benchFunc(b, m)
		})
	}
}

func newBenchPool[T any](b *testing.B, opts ...pool.Option) *pool.SlotPool[T] {
	b.Helper()
	p, err := pool.New[T](opts...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() {
		_ = p.WaitIdle(context.Background())
		_ = p.Close()
	})
	return p
}

// runRound dispatches fn with value i to every slot i.
func runRound(b *testing.B, p *pool.SlotPool[int], fn func(*int)) {
	for i := range p.Workers() {
		if err := p.DispatchFunc(i, fn, i); err != nil {
			b.Fatal(err)
		}
	}
}

// =============================================================================
// Benchmark Workload Generators
// =============================================================================

// cpuBoundWork simulates a CPU-intensive operation
func cpuBoundWork(iterations int) func(*int) {
	return func(v *int) {
		result := 0
		for i := range iterations {
			result += i * *v
		}
		*v = result
	}
}

// ioBoundWork simulates an I/O operation with a delay
func ioBoundWork(delay time.Duration) func(*int) {
	return func(v *int) {
		time.Sleep(delay)
		*v *= 2
	}
}

// skewedWork makes slot 0 much slower than the rest, which is the worst case
// for a round barrier.
func skewedWork(fast, slow int) func(*int) {
	return func(v *int) {
		n := fast
		if *v == 0 {
			n = slow
		}
		cpuBoundWork(n)(v)
	}
}

func percentile(latencies []time.Duration, p float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}

	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	// nearest-rank
	index := max(int(math.Round(p*float64(len(sorted)-1))), 0)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
