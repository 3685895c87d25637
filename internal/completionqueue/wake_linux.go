//go:build linux

// File: internal/completionqueue/wake_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// PortableQueue's real wakeup path is the sync.Cond in portable.go; this
// file adds an optional eventfd alongside it so a caller running its own
// epoll-based loop (grounded on the teacher's reactor/epoll_reactor.go and
// internal/concurrency/poller_linux.go) can multiplex this queue's activity
// into that loop via FD() instead of dedicating a goroutine to Dequeue.

package completionqueue

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

type waker struct {
	fd int
}

func newWaker() waker {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return waker{fd: -1}
	}
	return waker{fd: fd}
}

func (w waker) signal() {
	if w.fd < 0 {
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	_, _ = unix.Write(w.fd, buf[:])
}

// FD returns the eventfd backing this waker, or -1 if it could not be
// created (e.g. a sandboxed environment without CAP_SYS_ADMIN-adjacent
// restrictions on eventfd2). Safe to poll with epoll/select alongside other
// descriptors; reads off it are not required for PortableQueue's own
// correctness, which relies on sync.Cond.
func (w waker) FD() int {
	return w.fd
}

func (w waker) close() {
	if w.fd < 0 {
		return
	}
	_ = unix.Close(w.fd)
}
