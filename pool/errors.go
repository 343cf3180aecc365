package pool

import (
	"errors"
	"strconv"

	"github.com/ygrebnov/errorc"
)

// Namespace prefixes every error message produced by this package.
const Namespace = "slotpool"

var (
	// ErrSlotOutOfRange is returned when a dispatch names a slot outside [0, N).
	ErrSlotOutOfRange = errors.New(Namespace + ": slot index out of range")

	// ErrSlotBusy is returned when a dispatch targets a slot whose previous job
	// has not finished yet. The pending job is left untouched.
	ErrSlotBusy = errors.New(Namespace + ": slot is busy")

	// ErrPoolBusy is returned by Close while any slot still runs a job.
	ErrPoolBusy = errors.New(Namespace + ": pool is not idle")

	// ErrPoolClosed is returned by any operation on a closed pool.
	ErrPoolClosed = errors.New(Namespace + ": pool is closed")

	// ErrModeMismatch is returned when a value dispatch is used on a reference
	// mode pool or vice versa.
	ErrModeMismatch = errors.New(Namespace + ": dispatch form does not match pool mode")

	ErrNilHandler    = errors.New(Namespace + ": nil handler")
	ErrNilReference  = errors.New(Namespace + ": nil reference")
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")

	// ErrJobPanicked wraps the value recovered from a panicking handler.
	ErrJobPanicked = errors.New(Namespace + ": job panicked")
)

func slotError(err error, index int) error {
	return errorc.With(err, errorc.String("slot", strconv.Itoa(index)))
}

func configError(reason string) error {
	return errorc.With(ErrInvalidConfig, errorc.String("", reason))
}
