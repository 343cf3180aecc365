//go:build !linux && !windows

package cpu

// pinToCPU is a no-op: this platform offers no thread affinity API
// (macOS only takes affinity hints per thread group).
func pinToCPU(int) error { return nil }

// CurrentCPUs reports every CPU.
func CurrentCPUs() ([]int, error) {
	return allCPUs(), nil
}
