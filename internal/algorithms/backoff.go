package algorithms

import (
	"math/rand"
	"sync"
	"time"
)

const (
	maxShift = 62 // 1<<63 overflows int64
)

// exponentialBackoff doubles the delay per attempt up to maxDelay:
// initialDelay, 2x, 4x, 8x ...
type exponentialBackoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration
}

func newExponentialBackoff(initialDelay, maxDelay time.Duration) *exponentialBackoff {
	return &exponentialBackoff{
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
	}
}

func (eb *exponentialBackoff) NextDelay(attempt int) time.Duration {
	return calcExponentialDelay(attempt, eb.initialDelay, eb.maxDelay)
}

// jitteredBackoff scales the exponential delay by a random factor in
// [1-jitterFactor, 1+jitterFactor], so pollers started together drift apart.
type jitteredBackoff struct {
	initialDelay, maxDelay time.Duration
	jitterFactor           float64
	rng                    *rand.Rand
	mu                     sync.Mutex // rand.Rand is not safe for concurrent use
}

func newJitteredBackoff(initialDelay, maxDelay time.Duration, jitterFactor float64) *jitteredBackoff {
	return &jitteredBackoff{
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
		jitterFactor: clamp(jitterFactor, 0, 1),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- poll jitter
	}
}

func (jb *jitteredBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}

	base := calcExponentialDelay(attempt, jb.initialDelay, jb.maxDelay)

	jb.mu.Lock()
	multiplier := 1.0 + (jb.rng.Float64()*2-1)*jb.jitterFactor
	jb.mu.Unlock()

	return clamp(time.Duration(float64(base)*multiplier), 0, jb.maxDelay)
}

func calcExponentialDelay(attempt int, initialDelay, maxDelay time.Duration) time.Duration {
	if attempt < 0 {
		return 0
	}
	if attempt >= maxShift || initialDelay > maxDelay>>uint(attempt) {
		return maxDelay
	}
	return initialDelay << uint(attempt)
}

func clamp[T ~int64 | ~float64](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
