package pool

import (
	"context"
	"testing"
	"time"
)

// modeConfig defines a pool configuration exercised by mode-agnostic tests.
type modeConfig struct {
	name string
	opts []Option
}

// getAllThreadModes returns every way a worker can be bound to a thread.
func getAllThreadModes(workerCount int) []modeConfig {
	return []modeConfig{
		{
			name: "Goroutine",
			opts: []Option{WithWorkerCount(workerCount)},
		},
		{
			name: "DedicatedThread",
			opts: []Option{WithWorkerCount(workerCount), WithDedicatedThreads()},
		},
		{
			name: "Affinity",
			opts: []Option{WithWorkerCount(workerCount), WithThreadAffinity()},
		},
	}
}

func runThreadModeTest(t *testing.T, testFunc func(t *testing.T, m modeConfig), workerCount int, additionalOpts ...Option) {
	for _, m := range getAllThreadModes(workerCount) {
		m.opts = append(m.opts, additionalOpts...)
		t.Run(m.name, func(t *testing.T) {
			testFunc(t, m)
		})
	}
}

// newTestPool creates a pool and registers a Close that first waits for drain.
func newTestPool[T any](t *testing.T, opts ...Option) *SlotPool[T] {
	t.Helper()

	p, err := New[T](opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.WaitIdle(ctx); err != nil {
			t.Errorf("pool did not drain: %v", err)
			return
		}
		_ = p.Close()
	})
	return p
}

func waitIdle[T any](t *testing.T, p *SlotPool[T]) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.WaitIdle(ctx); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
}
