package pool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSlotPool_Close(t *testing.T) {
	t.Run("idle pool closes", func(t *testing.T) {
		runThreadModeTest(t, func(t *testing.T, m modeConfig) {
			p, err := New[int](m.opts...)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			for i := range p.Workers() {
				_ = p.DispatchFunc(i, func(*int) {}, i)
			}
			waitIdle(t, p)

			if err := p.Close(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}, 4)
	})

	t.Run("busy pool refuses to close", func(t *testing.T) {
		p, err := New[int](WithWorkerCount(4))
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		release := make(chan struct{})
		var finished atomic.Bool
		_ = p.DispatchFunc(2, func(*int) {
			<-release
			finished.Store(true)
		}, 0)

		err = p.Close()
		if !errors.Is(err, ErrPoolBusy) {
			t.Fatalf("expected ErrPoolBusy, got %v", err)
		}

		// A refused Close leaves the pool fully usable.
		var ran atomic.Bool
		if err := p.DispatchFunc(0, func(*int) { ran.Store(true) }, 0); err != nil {
			t.Fatalf("dispatch after refused close: %v", err)
		}

		close(release)
		waitIdle(t, p)
		if !finished.Load() || !ran.Load() {
			t.Fatal("jobs did not complete after refused close")
		}

		if err := p.Close(); err != nil {
			t.Fatalf("close after drain: %v", err)
		}
	})

	t.Run("double close fails", func(t *testing.T) {
		p, err := New[int]()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := p.Close(); err != nil {
			t.Fatalf("first close: %v", err)
		}
		if err := p.Close(); !errors.Is(err, ErrPoolClosed) {
			t.Fatalf("expected ErrPoolClosed, got %v", err)
		}
	})

	t.Run("dispatch after close fails", func(t *testing.T) {
		p, err := New[int]()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := p.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}

		var ran atomic.Bool
		err = p.DispatchFunc(0, func(*int) { ran.Store(true) }, 0)
		if !errors.Is(err, ErrPoolClosed) {
			t.Fatalf("expected ErrPoolClosed, got %v", err)
		}
		time.Sleep(10 * time.Millisecond)
		if ran.Load() {
			t.Error("job ran on a closed pool")
		}
	})

	t.Run("close joins workers", func(t *testing.T) {
		p, err := New[int](WithWorkerCount(8), WithDedicatedThreads())
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		done := make(chan error, 1)
		go func() { done <- p.Close() }()

		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("close: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Close did not return")
		}
	})
}

// Close racing with dispatch must either stop the pool or refuse, never both.
func TestSlotPool_CloseRacesDispatch(t *testing.T) {
	for range 50 {
		p, err := New[int](WithWorkerCount(4))
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		release := make(chan struct{})
		accepted := make(chan error, 1)
		go func() {
			accepted <- p.DispatchFunc(0, func(*int) { <-release }, 0)
		}()
		closeErr := p.Close()
		dispatchErr := <-accepted
		close(release)

		switch {
		case closeErr == nil:
			if !errors.Is(dispatchErr, ErrPoolClosed) {
				t.Fatalf("expected ErrPoolClosed after close, got %v", dispatchErr)
			}
		case errors.Is(closeErr, ErrPoolBusy):
			if dispatchErr != nil {
				t.Fatalf("close saw a busy slot but dispatch failed: %v", dispatchErr)
			}
			waitIdle(t, p)
			if err := p.Close(); err != nil {
				t.Fatalf("close after drain: %v", err)
			}
		default:
			t.Fatalf("unexpected close error: %v", closeErr)
		}
	}
}

// A refused Close must not make an open pool look closed, not even briefly.
func TestSlotPool_RefusedCloseKeepsPoolOpen(t *testing.T) {
	p := newTestPool[int](t, WithWorkerCount(4))

	release := make(chan struct{})
	if err := p.DispatchFunc(0, func(*int) { <-release }, 0); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	stop := make(chan struct{})
	var closers sync.WaitGroup
	var closeErrs atomic.Int32
	for range 2 {
		closers.Add(1)
		go func() {
			defer closers.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if err := p.Close(); !errors.Is(err, ErrPoolBusy) {
					closeErrs.Add(1)
				}
			}
		}()
	}

	var spurious int
	for range 2000 {
		err := p.DispatchFunc(1, func(*int) {}, 1)
		switch {
		case err == nil, errors.Is(err, ErrSlotBusy):
		default:
			spurious++
		}
	}
	close(stop)
	closers.Wait()
	close(release)

	if spurious != 0 {
		t.Errorf("dispatch to an idle slot failed %d times during refused closes", spurious)
	}
	if n := closeErrs.Load(); n != 0 {
		t.Errorf("refused Close returned something other than ErrPoolBusy %d times", n)
	}
}

func TestSlotPool_ConcurrentClose(t *testing.T) {
	for range 20 {
		p, err := New[int](WithWorkerCount(4))
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		errs := make(chan error, 2)
		for range 2 {
			go func() { errs <- p.Close() }()
		}
		first, second := <-errs, <-errs

		succeeded := 0
		for _, err := range []error{first, second} {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrPoolClosed):
			default:
				t.Fatalf("unexpected close error: %v", err)
			}
		}
		if succeeded != 1 {
			t.Fatalf("expected exactly one successful Close, got %d", succeeded)
		}
	}
}
