package pool

import (
	"context"
	"sync"
	"sync/atomic"
)

// idleCounter counts idle slots. The value is read lock-free by IsIdle; the
// mutex only guards the drain channel, which is closed whenever every slot
// is idle and replaced as soon as one becomes busy.
type idleCounter struct {
	total int64
	idle  atomic.Int64

	mu      sync.Mutex
	drained chan struct{}
}

func newIdleCounter(n int) *idleCounter {
	c := &idleCounter{
		total:   int64(n),
		drained: make(chan struct{}),
	}
	c.idle.Store(c.total)
	close(c.drained)
	return c
}

// acquire marks one slot busy.
func (c *idleCounter) acquire() {
	c.mu.Lock()
	if c.idle.Add(-1) == c.total-1 {
		c.drained = make(chan struct{})
	}
	c.mu.Unlock()
}

// release marks one slot idle again.
func (c *idleCounter) release() {
	c.mu.Lock()
	if c.idle.Add(1) == c.total {
		close(c.drained)
	}
	c.mu.Unlock()
}

func (c *idleCounter) load() int { return int(c.idle.Load()) }

func (c *idleCounter) isIdle() bool { return c.idle.Load() == c.total }

// wait blocks until every slot is idle or ctx is done.
func (c *idleCounter) wait(ctx context.Context) error {
	c.mu.Lock()
	ch := c.drained
	c.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
