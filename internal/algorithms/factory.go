package algorithms

import "time"

// BackoffType selects the delay curve.
type BackoffType int

const (
	// BackoffExponential doubles the delay on every attempt (default).
	BackoffExponential BackoffType = iota
	// BackoffJittered randomizes the exponential delay by ±jitterFactor.
	BackoffJittered
)

// NewBackoffStrategy builds the strategy for the given type.
func NewBackoffStrategy(
	backoffType BackoffType,
	initialDelay, maxDelay time.Duration,
	jitterFactor float64,
) BackoffStrategy {
	switch backoffType {
	case BackoffJittered:
		return newJitteredBackoff(initialDelay, maxDelay, jitterFactor)

	default:
		return newExponentialBackoff(initialDelay, maxDelay)
	}
}
