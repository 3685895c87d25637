// Package api
// Author: momentics <momentics@gmail.com>
//
// TimerQueue is the capability trait described in spec.md §9 Design Notes:
// a priority container over TimerNodes, implemented by three interchangeable
// backends (list, heap, wheel) under internal/timerqueue.

package api

import "time"

// TimerID identifies a scheduled timer for later cancellation.
type TimerID int64

// TimerNode is one pending (or currently-firing) timer registration.
type TimerNode struct {
	ID       TimerID
	Handler  TimeoutHandler
	Act      Act
	Expires  time.Time     // absolute expiration time
	Interval time.Duration // zero means one-shot
}

// UpcallFunctor converts a due TimerNode into a dispatch on a Proactor
// worker thread (spec.md §4.4). Implementations post a synthetic
// completion packet; they never invoke HandleTimeout themselves.
type UpcallFunctor interface {
	Deliver(handler TimeoutHandler, act Act, scheduled time.Time) error
}

// TimerQueue is satisfied by the list, heap, and wheel backends. All
// methods must be safe for concurrent use; implementations guard their
// state with a re-entrant lock because Expire invokes the upcall functor,
// which may itself call back into Schedule/Cancel (e.g. for upcall-driven
// rescheduling). Repeating nodes are re-inserted by Expire itself.
type TimerQueue interface {
	// Schedule inserts a node at absolute time expires, returning its id.
	Schedule(handler TimeoutHandler, act Act, expires time.Time, interval time.Duration) (TimerID, error)

	// Cancel removes the node with the given id. Returns true if a node
	// was removed.
	Cancel(id TimerID) bool

	// CancelHandler removes every node registered for handler, returning
	// the count removed.
	CancelHandler(handler TimeoutHandler) int

	// EarliestTime returns the minimum expiration time among pending
	// nodes. ok is false when the queue is empty.
	EarliestTime() (t time.Time, ok bool)

	// IsEmpty reports whether the queue has no pending nodes.
	IsEmpty() bool

	// Expire pops every node due at or before now, delivers each through
	// the upcall functor exactly once, and re-inserts repeating nodes at
	// prev+interval. It returns the number of nodes dispatched.
	Expire(now time.Time) int

	// UpcallFunctor returns the functor bound to this queue.
	UpcallFunctor() UpcallFunctor
}
