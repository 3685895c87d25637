//go:build windows

// File: internal/completionqueue/factory_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package completionqueue

import "github.com/kestrel-run/goproactor/api"

// NewDefault returns the platform default CompletionQueue: a real Windows
// I/O completion port.
func NewDefault(concurrency int) (api.CompletionQueue, error) {
	return New(concurrency)
}
