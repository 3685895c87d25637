// Package api
// Author: momentics <momentics@gmail.com>
//
// CompletionQueue is the "opaque abstract queue" of spec.md §1: the OS
// completion-port primitive, treated here purely through its interface so
// the Proactor core never depends on a concrete OS facility. Concrete
// backends live under internal/completionqueue.

package api

import "time"

// Handle is an OS-level resource identifier (a file descriptor on POSIX
// systems, a HANDLE on Windows). It is opaque to the Proactor core.
type Handle uintptr

// CompletionQueue abstracts the OS completion port: associate(handle),
// dequeue(timeout), post(packet), close(). All methods must be safe to call
// from multiple goroutines concurrently without external synchronization.
type CompletionQueue interface {
	// Associate binds handle to this queue under the given opaque
	// completion key. Re-associating the same handle is idempotent and
	// must not be reported as an error.
	Associate(handle Handle, key any) error

	// Dequeue blocks up to timeout for the next completion. A negative
	// timeout blocks indefinitely. On timeout it returns ErrTimedOut. A
	// packet is returned together with the byte count and completion key
	// recorded when it was posted, and the success flag / error captured
	// for real I/O completions (always true/nil for synthetic timer
	// completions, which carry their own success semantics internally).
	Dequeue(timeout time.Duration) (pkt CompletionResult, bytesTransferred int, key any, success bool, err error)

	// Post enqueues a completion packet directly, bypassing OS dequeue.
	// The timeout upcall uses this to deliver timer expirations through
	// the same queue as I/O (always success=true, err=nil, bytes=0,
	// key=nil); a real I/O layer posting out-of-band completions supplies
	// whatever success/err it already determined.
	Post(pkt CompletionResult, bytesTransferred int, key any, success bool, errCode error) error

	// Close tears down the queue. Any goroutine blocked in Dequeue
	// observes ErrClosed and returns.
	Close() error
}
