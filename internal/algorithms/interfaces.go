package algorithms

import "time"

// BackoffStrategy computes how long a poller sleeps before its next attempt.
type BackoffStrategy interface {
	// NextDelay returns the delay before poll attempt+1.
	// attempt is 0-indexed (0 = first wait after the initial poll).
	NextDelay(attempt int) time.Duration
}
