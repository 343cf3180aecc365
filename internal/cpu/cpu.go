// Package cpu binds slot workers to OS threads and, where the platform allows
// it, to individual CPUs.
package cpu

import "runtime"

// LockThread locks the calling goroutine to its OS thread.
// The returned function undoes the lock and should be deferred.
func LockThread() func() {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}

// SetupWorkerAffinity locks the calling goroutine to an OS thread and pins
// that thread to CPU (slot % NumCPU). Pinning failures are ignored: the worker
// keeps its dedicated thread either way.
// The returned function unlocks the thread and should be deferred.
func SetupWorkerAffinity(slot int) func() {
	unlock := LockThread()
	_ = pinToCPU(slot)
	return unlock
}

// normalize maps any slot index onto [0, NumCPU).
func normalize(id int) int {
	n := runtime.NumCPU()
	id %= n
	if id < 0 {
		id += n
	}
	return id
}

func allCPUs() []int {
	cpus := make([]int, runtime.NumCPU())
	for i := range cpus {
		cpus[i] = i
	}
	return cpus
}
