//go:build windows

package cpu

import (
	"syscall"
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	getCurrentThread      = kernel32.NewProc("GetCurrentThread")
)

// pinToCPU restricts the calling OS thread to a single CPU.
// The goroutine must already be locked with runtime.LockOSThread.
func pinToCPU(cpuID int) error {
	handle, _, _ := getCurrentThread.Call()

	// bit N selects CPU N
	mask := uintptr(1) << uint(normalize(cpuID))

	prev, _, err := setThreadAffinityMask.Call(handle, mask)
	if prev == 0 {
		return err
	}
	return nil
}

// CurrentCPUs is not implemented on windows; it reports every CPU.
func CurrentCPUs() ([]int, error) {
	return allCPUs(), nil
}
