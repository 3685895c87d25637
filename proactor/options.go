// File: proactor/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Functional options for Proactor construction, grounded on the teacher's
// facade.Config pattern: a small set of With* constructors closing over a
// private options struct, applied in order.

package proactor

import "github.com/kestrel-run/goproactor/api"

type options struct {
	concurrency     int
	completionQueue api.CompletionQueue
	control         api.Control
}

func defaultOptions(nThreads int) *options {
	if nThreads <= 0 {
		nThreads = 1
	}
	return &options{concurrency: nThreads}
}

// Option configures a Proactor at construction time.
type Option func(*options)

// WithCompletionQueue overrides the platform-default CompletionQueue
// backend — primarily for tests, which supply an in-memory fake instead of
// a real IOCP or portable queue.
func WithCompletionQueue(cq api.CompletionQueue) Option {
	return func(o *options) { o.completionQueue = cq }
}

// WithControl attaches a pre-built Control facade instead of a fresh one.
func WithControl(c api.Control) Option {
	return func(o *options) { o.control = c }
}
