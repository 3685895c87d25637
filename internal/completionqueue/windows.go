//go:build windows

// File: internal/completionqueue/windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// WindowsQueue is the real I/O completion port backend, grounded on the
// teacher's reactor/iocp_reactor.go. Packets cross the OS boundary tagged
// in the overlapped slot exactly as spec.md §6 ("Wire format") describes:
// a pointer to the CompletionResult, recovered on the far side of
// GetQueuedCompletionStatus.

package completionqueue

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"time"

	"golang.org/x/sys/windows"

	"github.com/kestrel-run/goproactor/api"
)

// overlappedPacket is the ABI payload referenced from the OVERLAPPED
// pointer slot (spec.md §6, "Wire format"): every packet that reaches this
// queue, timer-synthesized or real I/O, arrives through Post, so the
// overlapped pointer GetQueuedCompletionStatus hands back is always one of
// these — there is no foreign completion struct to reinterpret, since the
// concrete I/O operations that would produce one are out of scope for this
// module (spec.md §1) and are expected to route through Post like anything
// else.
type overlappedPacket struct {
	windows.Overlapped
	res     api.CompletionResult
	key     any
	success bool
	err     error
}

// WindowsQueue wraps a Windows IOCP handle.
type WindowsQueue struct {
	iocp        windows.Handle
	mu          sync.Mutex
	associated  map[api.Handle]any
	closed      atomic.Bool
	concurrency int
}

// New constructs a WindowsQueue sized for the given worker concurrency.
func New(concurrency int) (*WindowsQueue, error) {
	iocp, err := windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, uint32(concurrency))
	if err != nil {
		return nil, api.NewError(api.ErrCodeResourceExhausted, api.ErrResourceExhausted, "CreateIoCompletionPort failed").WithContext("os_error", err)
	}
	return &WindowsQueue{
		iocp:        iocp,
		associated:  make(map[api.Handle]any),
		concurrency: concurrency,
	}, nil
}

var _ api.CompletionQueue = (*WindowsQueue)(nil)

func (q *WindowsQueue) Associate(handle api.Handle, key any) error {
	q.mu.Lock()
	if _, already := q.associated[handle]; already {
		q.mu.Unlock()
		return nil
	}
	q.mu.Unlock()

	completionKey := keyToULongPtr(key)
	_, err := windows.CreateIoCompletionPort(windows.Handle(handle), q.iocp, completionKey, uint32(q.concurrency))
	if err != nil {
		if err == windows.ERROR_INVALID_PARAMETER {
			// Already associated with this (or another) port: accepted.
			q.mu.Lock()
			q.associated[handle] = key
			q.mu.Unlock()
			return nil
		}
		return api.NewError(api.ErrCodeOsError, api.ErrOsError, "CreateIoCompletionPort associate failed").WithContext("os_error", err)
	}
	q.mu.Lock()
	q.associated[handle] = key
	q.mu.Unlock()
	return nil
}

func (q *WindowsQueue) Post(pkt api.CompletionResult, bytesTransferred int, key any, success bool, errCode error) error {
	if q.closed.Load() {
		return api.ErrClosed
	}
	ov := &overlappedPacket{res: pkt, key: key, success: success, err: errCode}
	if err := windows.PostQueuedCompletionStatus(q.iocp, uint32(bytesTransferred), 0, &ov.Overlapped); err != nil {
		return api.NewError(api.ErrCodeOsError, api.ErrOsError, "PostQueuedCompletionStatus failed").WithContext("os_error", err)
	}
	return nil
}

func (q *WindowsQueue) Dequeue(timeout time.Duration) (api.CompletionResult, int, any, bool, error) {
	var ms uint32 = windows.INFINITE
	if timeout >= 0 {
		ms = uint32(timeout / time.Millisecond)
	}

	var bytes uint32
	var rawKey uintptr
	var ov *windows.Overlapped
	err := windows.GetQueuedCompletionStatus(q.iocp, &bytes, &rawKey, &ov, ms)
	if ov == nil {
		if err == windows.WAIT_TIMEOUT {
			return nil, 0, nil, false, api.ErrTimedOut
		}
		if q.closed.Load() {
			return nil, 0, nil, false, api.ErrClosed
		}
		return nil, 0, nil, false, api.NewError(api.ErrCodeOsError, api.ErrOsError, "GetQueuedCompletionStatus failed").WithContext("os_error", err)
	}

	packet := (*overlappedPacket)(unsafe.Pointer(ov))
	return packet.res, int(bytes), packet.key, packet.success, packet.err
}

func (q *WindowsQueue) Close() error {
	if !q.closed.CompareAndSwap(false, true) {
		return nil
	}
	return windows.CloseHandle(q.iocp)
}

// Pending is unsupported for the IOCP backend; depth is managed entirely
// by the kernel.
func (q *WindowsQueue) Pending() int { return -1 }

func keyToULongPtr(key any) uintptr {
	if key == nil {
		return 0
	}
	if u, ok := key.(uintptr); ok {
		return u
	}
	if u, ok := key.(api.Handle); ok {
		return uintptr(u)
	}
	return 0
}
