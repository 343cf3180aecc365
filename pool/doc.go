// Package pool provides a fixed-size, slot-addressed worker pool.
//
// The primary type is SlotPool[T]. Every worker owns a numbered slot for the
// lifetime of the pool; there is no shared queue. The caller decides which
// slot runs which job, hands it a handler and one data element, and later
// waits for the whole pool to become idle before issuing the next round.
//
// # Basic Usage
//
//	slots, err := pool.New[int](pool.WithWorkerCount(4))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer slots.Close()
//
//	results := make([]int, slots.Workers())
//	for i := range slots.Workers() {
//	    _ = slots.DispatchFunc(i, func(v *int) { results[*v] = *v * 2 }, i)
//	}
//	_ = slots.WaitIdle(ctx)
//
// # Value and Reference Modes
//
// By default a pool copies every dispatched value into the slot and the
// handler receives a pointer to that copy. A pool created with
// WithReferenceMode stores the caller's pointer instead, which is how a large
// array is split across workers without copying:
//
//	var rows [8][1024]float64
//	slots, _ := pool.New[[1024]float64](pool.WithWorkerCount(8), pool.WithReferenceMode())
//	for i := range rows {
//	    _ = slots.DispatchRef(i, pool.HandlerFunc[[1024]float64](normalize), &rows[i])
//	}
//
// # Methods as Work
//
// Any type implementing Handler[T] can be dispatched. Bind and DispatchMethod
// turn a method expression plus a receiver into a Handler:
//
//	err := pool.DispatchMethod(slots, 0, (*Filter).Apply, filter, 42)
//
// # Waiting for a Round
//
//   - IsIdle: non-blocking snapshot, usable in a spin loop
//   - WaitIdle: blocks on a channel until every slot is idle
//   - SpinUntilIdle: polls IsIdle with exponential backoff
//
// # Error Handling
//
// Dispatch never queues and never overwrites. It fails with ErrSlotOutOfRange
// for a bad index and ErrSlotBusy when the slot is still running its previous
// job. Close fails with ErrPoolBusy unless the pool is idle. A panicking
// handler does not kill its worker: the panic is reported to the WithOnJobEnd
// hook as an error wrapping ErrJobPanicked and the slot returns to idle.
//
// # Configuration Options
//
//   - WithWorkerCount(n): number of slots (default GOMAXPROCS, floor 4)
//   - WithMinWorkers(n): override the floor
//   - WithReferenceMode(): store pointers instead of copies
//   - WithDedicatedThreads(), WithThreadAffinity(): OS thread binding
//   - WithRateLimit(perSecond, burst): cap job starts
//   - WithBeforeJobStart, WithOnJobEnd: hooks
//   - WithSpinBackoff, WithSpinJitter: SpinUntilIdle tuning
//   - WithLogger: zap logger for lifecycle and rejections
package pool
