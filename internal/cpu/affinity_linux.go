//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCPU restricts the calling OS thread to a single CPU.
// The goroutine must already be locked with runtime.LockOSThread.
func pinToCPU(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(normalize(cpuID))

	return unix.SchedSetaffinity(0, &set) // 0 = calling thread
}

// CurrentCPUs returns the CPUs the calling thread may run on.
func CurrentCPUs() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, err
	}

	cpus := make([]int, 0, set.Count())
	for i := range runtime.NumCPU() {
		if set.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	return cpus, nil
}
