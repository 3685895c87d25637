//go:build windows
// +build windows

// control/platform_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific debug probes. Beyond CPU count, a Proactor's worker
// goroutines are ordinary Go goroutines rather than OS threads, so the live
// goroutine count is the more telling health signal on this platform — a
// count climbing unboundedly past NumberOfThreads() usually means a worker
// loop stopped returning from HandleEvents.

package control

import "runtime"

// RegisterPlatformProbes installs Windows-specific debug probes.
func RegisterPlatformProbes(r *ProbeRegistry) {
	r.Register("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	r.Register("platform.goroutines", func() any {
		return runtime.NumGoroutine()
	})
}
