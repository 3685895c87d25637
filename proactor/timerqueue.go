// File: proactor/timerqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// NewTimerQueue is the public factory over the three TimerQueue variants
// (spec.md §4.2), named by SPEC_FULL.md §6 as the "domain-stack wiring
// surface" for selecting one at runtime. The concrete backends live under
// internal/timerqueue; this is the only place outside that package that
// needs to know their constructor names.

package proactor

import (
	"time"

	"github.com/kestrel-run/goproactor/api"
	"github.com/kestrel-run/goproactor/internal/timerqueue"
)

// TimerQueueKind selects a TimerQueue implementation.
type TimerQueueKind int

const (
	// TimerQueueList is the ordered-insertion variant: O(n) schedule,
	// O(1) earliest. Good default for a handful of pending timers.
	TimerQueueList TimerQueueKind = iota
	// TimerQueueHeap is the binary-heap variant: O(log n) schedule and
	// cancel-by-id. Preferred when many timers are scheduled and
	// cancelled independently.
	TimerQueueHeap
	// TimerQueueWheel is the hashed-timing-wheel variant: O(1) amortized
	// schedule and expire for large numbers of near-future deadlines.
	TimerQueueWheel
)

// NewTimerQueue constructs a TimerQueue of the given kind, wired to upcall.
// Callers replacing a Proactor's TimerQueue should pass p.Upcall() so the
// new queue's expirations still dispatch through that Proactor.
func NewTimerQueue(kind TimerQueueKind, upcall api.UpcallFunctor) api.TimerQueue {
	switch kind {
	case TimerQueueHeap:
		return timerqueue.NewHeapTimerQueue(upcall)
	case TimerQueueWheel:
		return timerqueue.NewWheelTimerQueue(upcall, 0, 0)
	default:
		return timerqueue.NewListTimerQueue(upcall)
	}
}

// NewWheelTimerQueue constructs a wheel-backed TimerQueue with an explicit
// slot count and tick resolution, for callers tuning it for their expected
// timer population instead of taking the defaults NewTimerQueue picks.
func NewWheelTimerQueue(upcall api.UpcallFunctor, numSlots int, tick time.Duration) api.TimerQueue {
	return timerqueue.NewWheelTimerQueue(upcall, numSlots, tick)
}
