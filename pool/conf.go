package pool

import (
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultMinWorkers is the floor applied to the requested worker count.
const DefaultMinWorkers = 4

// Option is a functional option for configuring a SlotPool.
type Option func(*poolConfig)

type poolConfig struct {
	workerCount int
	minWorkers  int
	mode        Mode

	dedicatedThreads bool
	threadAffinity   bool

	rateLimiter *rate.Limiter
	rateErr     string

	beforeJobStart func(slot int)
	onJobEnd       func(slot int, elapsed time.Duration, err error)

	spinInitial time.Duration
	spinMax     time.Duration
	spinJitter  float64

	logger     *zap.Logger
	ownsLogger bool
}

// WithWorkerCount sets the number of slots. Values below the floor
// (see WithMinWorkers) are raised to the floor.
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithWorkerCount(count int) Option {
	return func(cfg *poolConfig) {
		cfg.workerCount = count
	}
}

// WithMinWorkers overrides the floor applied to the worker count (default 4).
func WithMinWorkers(n int) Option {
	return func(cfg *poolConfig) {
		cfg.minWorkers = n
	}
}

// WithReferenceMode makes the pool store caller pointers instead of copies.
// Only DispatchRef and DispatchMethodRef are accepted by such a pool.
func WithReferenceMode() Option {
	return func(cfg *poolConfig) {
		cfg.mode = ModeReference
	}
}

// WithDedicatedThreads locks every slot worker to its own OS thread for the
// lifetime of the pool.
func WithDedicatedThreads() Option {
	return func(cfg *poolConfig) {
		cfg.dedicatedThreads = true
	}
}

// WithThreadAffinity locks every slot worker to an OS thread and pins that
// thread to CPU (slot % NumCPU). Pinning is a no-op outside linux and windows.
func WithThreadAffinity() Option {
	return func(cfg *poolConfig) {
		cfg.dedicatedThreads = true
		cfg.threadAffinity = true
	}
}

// WithRateLimit caps how many jobs per second may start across all slots.
// A worker that is over the limit waits before running its job; the slot
// stays busy meanwhile.
//
// Example:
//
//	WithRateLimit(100, 10) // 100 jobs/sec, burst of 10
func WithRateLimit(jobsPerSecond float64, burst int) Option {
	return func(cfg *poolConfig) {
		if jobsPerSecond <= 0 || burst <= 0 {
			cfg.rateErr = "WithRateLimit requires jobsPerSecond > 0 and burst > 0"
			return
		}
		cfg.rateLimiter = rate.NewLimiter(rate.Limit(jobsPerSecond), burst)
	}
}

// WithBeforeJobStart registers a hook called on the slot worker right before
// each job runs. A panic in the hook is handled like a panic in the job.
func WithBeforeJobStart(fn func(slot int)) Option {
	return func(cfg *poolConfig) {
		cfg.beforeJobStart = fn
	}
}

// WithOnJobEnd registers a hook called on the slot worker after each job.
// err is non-nil only when the job panicked; it wraps ErrJobPanicked.
// A panic in this hook is logged and otherwise ignored.
func WithOnJobEnd(fn func(slot int, elapsed time.Duration, err error)) Option {
	return func(cfg *poolConfig) {
		cfg.onJobEnd = fn
	}
}

// WithSpinBackoff sets the delay bounds used by SpinUntilIdle between polls.
// Defaults: 1µs initial, 1ms max.
func WithSpinBackoff(initial, max time.Duration) Option {
	return func(cfg *poolConfig) {
		cfg.spinInitial = initial
		cfg.spinMax = max
	}
}

// WithSpinJitter randomizes SpinUntilIdle delays by ±factor (0..1).
func WithSpinJitter(factor float64) Option {
	return func(cfg *poolConfig) {
		cfg.spinJitter = factor
	}
}

// WithLogger sets the logger used for lifecycle and rejection messages.
// Defaults to a no-op logger (a development logger when built with -tags debug).
// The pool never syncs a logger it did not create.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *poolConfig) {
		if l != nil {
			cfg.logger = l
			cfg.ownsLogger = false
		}
	}
}

func createConfig(opts ...Option) (*poolConfig, error) {
	cfg := &poolConfig{
		workerCount: runtime.GOMAXPROCS(0),
		minWorkers:  DefaultMinWorkers,
		mode:        ModeValue,
		spinInitial: time.Microsecond,
		spinMax:     time.Millisecond,
		spinJitter:  0,
		logger:      defaultLogger(),
		ownsLogger:  true,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	cfg.workerCount = max(cfg.workerCount, cfg.minWorkers)
	return cfg, nil
}

func validateConfig(cfg *poolConfig) error {
	switch {
	case cfg.minWorkers <= 0:
		return configError("WithMinWorkers requires n > 0")
	case cfg.rateErr != "":
		return configError(cfg.rateErr)
	case cfg.spinInitial <= 0 || cfg.spinMax < cfg.spinInitial:
		return configError("WithSpinBackoff requires 0 < initial <= max")
	case cfg.spinJitter < 0 || cfg.spinJitter > 1:
		return configError("WithSpinJitter requires factor in [0, 1]")
	}
	return nil
}
