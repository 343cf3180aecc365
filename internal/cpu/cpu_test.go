package cpu

import (
	"runtime"
	"testing"
)

func TestNormalize(t *testing.T) {
	n := runtime.NumCPU()
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{n, 0},
		{n + 1, 1 % n},
		{-1, n - 1},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSetupWorkerAffinity(t *testing.T) {
	done := make(chan []int, 1)
	go func() {
		defer SetupWorkerAffinity(0)()
		cpus, err := CurrentCPUs()
		if err != nil {
			t.Errorf("CurrentCPUs: %v", err)
		}
		done <- cpus
	}()

	cpus := <-done
	if len(cpus) == 0 {
		t.Fatal("expected at least one CPU")
	}
	if runtime.GOOS == "linux" && len(cpus) != 1 {
		// pinning can be refused inside restricted cpusets
		t.Logf("thread not pinned to a single CPU: %v", cpus)
	}
}
