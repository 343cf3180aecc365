package pool

import "sync"

// slot is one unit of concurrency: a worker bound to a fixed index, the work
// and data handed to it, and the mutex/cond pair used to wake it.
// Every field below mu is guarded by mu.
type slot[T any] struct {
	index int

	mu   sync.Mutex
	wake *sync.Cond

	pending Handler[T]
	cell    T  // value mode: owned copy
	ref     *T // reference mode: caller storage
	owned   bool
	busy    bool
	stopped bool

	runs uint64
}

func newSlot[T any](index int) *slot[T] {
	s := &slot[T]{
		index:   index,
		pending: noop[T]{},
	}
	s.wake = sync.NewCond(&s.mu)
	return s
}

// load records a job for the slot's worker. It fails without touching the
// slot when the slot is busy or stopped; acquire is only invoked once the job
// is accepted.
func (s *slot[T]) load(h Handler[T], v T, ref *T, owned bool, acquire func()) error {
	s.mu.Lock()
	switch {
	case s.stopped:
		s.mu.Unlock()
		return ErrPoolClosed
	case s.busy:
		s.mu.Unlock()
		return slotError(ErrSlotBusy, s.index)
	}

	acquire()
	s.pending = h
	s.owned = owned
	if owned {
		s.cell = v
		s.ref = nil
	} else {
		s.ref = ref
	}
	s.busy = true
	s.mu.Unlock()

	s.wake.Signal()
	return nil
}

// handle returns the data pointer handed to the pending job. Caller holds mu.
func (s *slot[T]) handle() *T {
	if s.owned {
		return &s.cell
	}
	return s.ref
}

// reset returns the slot to idle after a job. Caller holds mu.
func (s *slot[T]) reset() {
	var zero T
	s.pending = noop[T]{}
	s.cell = zero
	s.ref = nil
	s.busy = false
	s.runs++
}

func (s *slot[T]) isBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *slot[T]) runCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}
