//go:build linux
// +build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific debug probes. Beyond CPU count, a Proactor's worker
// goroutines are ordinary Go goroutines rather than OS threads, so the live
// goroutine count is the more telling health signal on this platform — a
// count climbing unboundedly past NumberOfThreads() usually means a worker
// loop stopped returning from HandleEvents.

package control

import "runtime"

// RegisterPlatformProbes installs Linux-specific debug probes.
func RegisterPlatformProbes(r *ProbeRegistry) {
	r.Register("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	r.Register("platform.goroutines", func() any {
		return runtime.NumGoroutine()
	})
}
