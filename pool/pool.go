package pool

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/slotpool/internal/algorithms"
)

// SlotPool is a fixed set of workers, each bound to a numbered slot. Work is
// handed to a specific slot with Dispatch; there is no shared queue. A slot
// accepts one job at a time and rejects further dispatches until that job is
// done.
//
// Dispatching to distinct slots from several goroutines is safe. The
// supported synchronization model is a single producer that dispatches a
// round and then waits for the pool to drain (IsIdle, WaitIdle or
// SpinUntilIdle) before the next round.
//
// Type parameters:
//   - T: The element type handed to every job
type SlotPool[T any] struct {
	conf  *poolConfig
	log   *zap.Logger
	slots []*slot[T]
	idle  *idleCounter
	stats *statsCollector

	group errgroup.Group
}

// New creates a pool and starts one worker per slot.
//
// Default configuration:
//   - workers: runtime.GOMAXPROCS(0), never fewer than DefaultMinWorkers
//   - mode: ModeValue
//   - workers run as plain goroutines (see WithDedicatedThreads)
//
// Example:
//
//	slots, err := New[int](WithWorkerCount(8))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i := range slots.Workers() {
//	    _ = slots.DispatchFunc(i, func(v *int) { fmt.Println(*v) }, i)
//	}
//	_ = slots.WaitIdle(ctx)
//	_ = slots.Close()
func New[T any](opts ...Option) (*SlotPool[T], error) {
	conf, err := createConfig(opts...)
	if err != nil {
		return nil, err
	}

	n := conf.workerCount
	p := &SlotPool[T]{
		conf:  conf,
		log:   conf.logger,
		slots: make([]*slot[T], n),
		idle:  newIdleCounter(n),
		stats: newStatsCollector(),
	}

	for i := range n {
		p.slots[i] = newSlot[T](i)
	}
	for _, s := range p.slots {
		p.group.Go(func() error {
			return worker(p, s)
		})
	}

	p.log.Info("slot pool started",
		zap.Int("workers", n),
		zap.Stringer("mode", conf.mode),
		zap.Bool("dedicatedThreads", conf.dedicatedThreads),
	)
	return p, nil
}

// Workers returns the number of slots.
func (p *SlotPool[T]) Workers() int { return len(p.slots) }

// Mode returns the data mode the pool was created with.
func (p *SlotPool[T]) Mode() Mode { return p.conf.mode }

// Dispatch hands h and a copy of v to the worker of slot index. It returns as
// soon as the job is recorded and does not wait for it to run.
//
// Returns:
//   - ErrSlotOutOfRange: index is outside [0, Workers())
//   - ErrSlotBusy: the slot has not finished its previous job
//   - ErrModeMismatch: the pool was created with WithReferenceMode
//   - ErrNilHandler, ErrPoolClosed
func (p *SlotPool[T]) Dispatch(index int, h Handler[T], v T) error {
	return p.dispatch(index, h, v, nil, ModeValue)
}

// DispatchFunc is Dispatch for a plain function.
func (p *SlotPool[T]) DispatchFunc(index int, fn func(data *T), v T) error {
	if fn == nil {
		return p.dispatch(index, nil, v, nil, ModeValue)
	}
	return p.dispatch(index, HandlerFunc[T](fn), v, nil, ModeValue)
}

// DispatchRef hands h and the pointer ref to the worker of slot index. The
// handler receives ref itself; the pointed-to element is never copied, so the
// caller must keep it alive and untouched until the job is done.
// Only valid on a pool created with WithReferenceMode.
func (p *SlotPool[T]) DispatchRef(index int, h Handler[T], ref *T) error {
	var zero T
	return p.dispatch(index, h, zero, ref, ModeReference)
}

// TryDispatch is Dispatch reporting only whether the job was accepted.
func (p *SlotPool[T]) TryDispatch(index int, h Handler[T], v T) bool {
	return p.Dispatch(index, h, v) == nil
}

// DispatchMethod binds method to obj and dispatches it with a copy of v.
// It is the method counterpart of Dispatch:
//
//	err := DispatchMethod(slots, 2, (*Filter).Apply, filter, row)
func DispatchMethod[O, T any](p *SlotPool[T], index int, method func(O, *T), obj O, v T) error {
	return p.Dispatch(index, Bind(obj, method), v)
}

// DispatchMethodRef is DispatchMethod for reference mode pools.
func DispatchMethodRef[O, T any](p *SlotPool[T], index int, method func(O, *T), obj O, ref *T) error {
	return p.DispatchRef(index, Bind(obj, method), ref)
}

func (p *SlotPool[T]) dispatch(index int, h Handler[T], v T, ref *T, form Mode) error {
	err := p.accept(index, h, v, ref, form)
	p.stats.recordDispatch(err)
	if err != nil {
		p.log.Debug("dispatch rejected", zap.Int("slot", index), zap.Error(err))
	}
	return err
}

func (p *SlotPool[T]) accept(index int, h Handler[T], v T, ref *T, form Mode) error {
	switch {
	case index < 0 || index >= len(p.slots):
		return slotError(ErrSlotOutOfRange, index)
	case h == nil:
		return ErrNilHandler
	case form != p.conf.mode:
		return slotError(ErrModeMismatch, index)
	case form == ModeReference && ref == nil:
		return ErrNilReference
	}

	return p.slots[index].load(h, v, ref, form == ModeValue, p.idle.acquire)
}

// IsIdle reports whether every slot is idle. It is a non-blocking snapshot;
// it forms no barrier against a dispatch issued concurrently from another
// goroutine.
func (p *SlotPool[T]) IsIdle() bool {
	return p.idle.isIdle()
}

// SlotBusy reports whether slot index is running (or about to run) a job.
func (p *SlotPool[T]) SlotBusy(index int) (bool, error) {
	if index < 0 || index >= len(p.slots) {
		return false, slotError(ErrSlotOutOfRange, index)
	}
	return p.slots[index].isBusy(), nil
}

// WaitIdle blocks until every slot is idle or ctx is done.
func (p *SlotPool[T]) WaitIdle(ctx context.Context) error {
	return p.idle.wait(ctx)
}

// SpinUntilIdle polls IsIdle until it reports true or ctx is done, sleeping
// between polls with an exponential backoff bounded by WithSpinBackoff.
// Spinning gives the lowest wake-up latency but burns CPU; WaitIdle is the
// cheaper choice for most callers.
func (p *SlotPool[T]) SpinUntilIdle(ctx context.Context) error {
	backoff := algorithms.NewBackoffStrategy(
		p.spinBackoffType(),
		p.conf.spinInitial,
		p.conf.spinMax,
		p.conf.spinJitter,
	)

	for attempt := 0; !p.IsIdle(); attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		time.Sleep(backoff.NextDelay(attempt))
	}
	return nil
}

func (p *SlotPool[T]) spinBackoffType() algorithms.BackoffType {
	if p.conf.spinJitter > 0 {
		return algorithms.BackoffJittered
	}
	return algorithms.BackoffExponential
}

// Stats returns a snapshot of pool activity.
func (p *SlotPool[T]) Stats() Stats {
	st := p.stats.snapshot()
	st.Workers = len(p.slots)
	st.Idle = p.idle.load()
	st.SlotRuns = make([]uint64, len(p.slots))
	for i, s := range p.slots {
		st.SlotRuns[i] = s.runCount()
	}
	return st
}

// Close stops every worker and waits for them to exit. The pool must be idle:
// Close never drains or abandons a running job.
//
// Returns:
//   - ErrPoolBusy: a slot is still running a job; the pool is left untouched
//   - ErrPoolClosed: Close was already called successfully
func (p *SlotPool[T]) Close() error {
	// Holding every slot lock at once makes the checks and the stop atomic
	// with respect to dispatch, which only ever holds one. Concurrent Close
	// calls serialize on the first lock.
	for _, s := range p.slots {
		s.mu.Lock()
	}
	err := p.checkStoppable()
	if err == nil {
		for _, s := range p.slots {
			s.stopped = true
		}
	}
	for _, s := range p.slots {
		s.mu.Unlock()
	}
	if err != nil {
		return err
	}

	for _, s := range p.slots {
		s.wake.Broadcast()
	}
	err = p.group.Wait()

	p.log.Info("slot pool closed", zap.Int64("completed", p.stats.completed.Load()))
	if p.conf.ownsLogger {
		_ = p.log.Sync()
	}
	return err
}

// checkStoppable reports why the pool cannot be stopped right now.
// Caller holds every slot lock.
func (p *SlotPool[T]) checkStoppable() error {
	for _, s := range p.slots {
		if s.stopped {
			return ErrPoolClosed
		}
	}
	for _, s := range p.slots {
		if s.busy {
			return slotError(ErrPoolBusy, s.index)
		}
	}
	return nil
}
