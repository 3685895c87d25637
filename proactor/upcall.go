// File: proactor/upcall.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// timeoutUpcall is the Timeout Upcall adapter of spec.md §4.4: it converts a
// due TimerNode into a synthetic completion packet posted to the owning
// Proactor's completion queue. It never invokes handler.HandleTimeout
// itself — that happens later, when a worker goroutine dequeues the packet
// this functor posts and calls its Complete method.

package proactor

import (
	"time"

	"github.com/kestrel-run/goproactor/api"
)

// timeoutUpcall implements api.UpcallFunctor. It is bound to exactly one
// Proactor (spec.md §3 invariant), wired at construction rather than through
// a mutable back-pointer set later (spec.md §9: "make it explicit at
// construction").
type timeoutUpcall struct {
	bound *Proactor
}

func newTimeoutUpcall() *timeoutUpcall {
	return &timeoutUpcall{}
}

// bind wires the functor's back-reference. A second call — attempting to
// share one upcall functor between two Proactors — returns ErrInvalidState.
func (u *timeoutUpcall) bind(p *Proactor) error {
	if u.bound != nil {
		return api.NewError(api.ErrCodeInvalidState, api.ErrInvalidState,
			"timeout upcall already bound to a proactor")
	}
	u.bound = p
	return nil
}

var _ api.UpcallFunctor = (*timeoutUpcall)(nil)

// Deliver allocates an AsynchTimerResult packet and posts it to the bound
// Proactor's completion queue as a synthetic completion (zero bytes, nil
// key, success=true — spec.md §4.4 step 2). On post failure it returns the
// error without retrying; the caller (TimerQueue.Expire) is responsible for
// deciding whether the node's state still reflects that decision.
func (u *timeoutUpcall) Deliver(handler api.TimeoutHandler, act api.Act, scheduled time.Time) error {
	if u.bound == nil {
		return api.NewError(api.ErrCodeInvalidState, api.ErrInvalidState,
			"timeout upcall not bound to a proactor")
	}
	pkt := &asynchTimerResult{handler: handler, act: act, scheduled: scheduled}
	if err := u.bound.cq.Post(pkt, 0, nil, true, nil); err != nil {
		return api.NewError(api.ErrCodeOsError, api.ErrOsError,
			"posting synthetic timer completion failed").WithContext("os_error", err)
	}
	return nil
}
