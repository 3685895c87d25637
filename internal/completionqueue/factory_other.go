//go:build !windows

// File: internal/completionqueue/factory_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package completionqueue

import "github.com/kestrel-run/goproactor/api"

// NewDefault returns the platform default CompletionQueue for GOOS values
// without a native completion port: the portable, ring-buffer and
// sync.Cond backed queue.
func NewDefault(concurrency int) (api.CompletionQueue, error) {
	return New(concurrency), nil
}
