package pool

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	Workers        int           // Number of slots
	Idle           int           // Slots currently idle
	Dispatched     int64         // Jobs accepted by a dispatch call
	Completed      int64         // Jobs that ran to completion (including panicked ones)
	Rejected       int64         // Dispatch calls refused (range, busy, mode, closed)
	Panicked       int64         // Jobs whose handler panicked
	AverageLatency time.Duration // Mean handler run time
	SlotRuns       []uint64      // Completed jobs per slot, indexed by slot
	Uptime         time.Duration
}

type statsCollector struct {
	dispatched   atomic.Int64
	completed    atomic.Int64
	rejected     atomic.Int64
	panicked     atomic.Int64
	totalLatency atomic.Int64 // nanoseconds
	startTime    time.Time
}

func newStatsCollector() *statsCollector {
	return &statsCollector{startTime: time.Now()}
}

func (s *statsCollector) recordCompletion(d time.Duration, panicked bool) {
	s.completed.Add(1)
	s.totalLatency.Add(int64(d))
	if panicked {
		s.panicked.Add(1)
	}
}

func (s *statsCollector) recordDispatch(err error) {
	if err != nil {
		s.rejected.Add(1)
		return
	}
	s.dispatched.Add(1)
}

func (s *statsCollector) snapshot() Stats {
	completed := s.completed.Load()
	var avg time.Duration
	if completed > 0 {
		avg = time.Duration(s.totalLatency.Load() / completed)
	}
	return Stats{
		Dispatched:     s.dispatched.Load(),
		Completed:      completed,
		Rejected:       s.rejected.Load(),
		Panicked:       s.panicked.Load(),
		AverageLatency: avg,
		Uptime:         time.Since(s.startTime),
	}
}
