package pool

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/utkarsh5026/slotpool/internal/cpu"
)

// worker is the loop run by the goroutine bound to slot s for the lifetime of
// the pool: wait for work, run it, mark the slot idle, repeat. It returns once
// Close has stopped the slot.
func worker[T any](p *SlotPool[T], s *slot[T]) error {
	switch {
	case p.conf.threadAffinity:
		defer cpu.SetupWorkerAffinity(s.index)()
	case p.conf.dedicatedThreads:
		defer cpu.LockThread()()
	}

	s.mu.Lock()
	for {
		for !s.busy && !s.stopped {
			s.wake.Wait()
		}
		if !s.busy {
			s.mu.Unlock()
			p.log.Debug("slot worker stopped", zap.Int("slot", s.index))
			return nil
		}

		h, data := s.pending, s.handle()
		s.mu.Unlock()

		elapsed, err := p.runJob(s.index, h, data)
		p.stats.recordCompletion(elapsed, err != nil)

		s.mu.Lock()
		s.reset()
		p.idle.release()
	}
}

// runJob executes one job with hooks and panic recovery. A panic in the job
// or in the before-start hook is converted into an error wrapping
// ErrJobPanicked so the slot always returns to idle.
func (p *SlotPool[T]) runJob(index int, h Handler[T], data *T) (time.Duration, error) {
	if p.conf.rateLimiter != nil {
		_ = p.conf.rateLimiter.Wait(context.Background())
	}

	start := time.Now()
	err := protect(func() {
		if p.conf.beforeJobStart != nil {
			p.conf.beforeJobStart(index)
		}
		h.Handle(data)
	})
	elapsed := time.Since(start)
	if err != nil {
		p.log.Warn("job panicked", zap.Int("slot", index), zap.Error(err))
	}

	if p.conf.onJobEnd != nil {
		if herr := protect(func() { p.conf.onJobEnd(index, elapsed, err) }); herr != nil {
			p.log.Warn("job end hook panicked", zap.Int("slot", index), zap.Error(herr))
		}
	}
	return elapsed, err
}

func protect(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("%w: %v\nstack trace:\n%s", ErrJobPanicked, r, buf[:n])
		}
	}()

	fn()
	return nil
}
