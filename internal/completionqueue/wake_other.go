//go:build !linux && !windows

// File: internal/completionqueue/wake_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-Linux, non-Windows Unix (darwin, bsd, ...) has no eventfd; the
// eventfd-based external-poll FD is simply unavailable there, and
// PortableQueue falls back to its sync.Cond-only wakeup path.

package completionqueue

type waker struct{}

func newWaker() waker { return waker{} }

func (waker) signal() {}
func (waker) close()  {}
func (waker) FD() int { return -1 }
