// File: proactor/proactor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Proactor is the core of this module (spec.md §4.1): it owns a completion
// queue, a TimerQueue, and the Timer Handler Thread that keeps the latter's
// deadlines honest. Callers own the worker threads that call HandleEvents;
// the Proactor owns nothing else long-lived.

package proactor

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kestrel-run/goproactor/api"
	"github.com/kestrel-run/goproactor/control"
	"github.com/kestrel-run/goproactor/internal/completionqueue"
	"github.com/kestrel-run/goproactor/internal/timerqueue"
	"github.com/kestrel-run/goproactor/internal/timerthread"
)

// Proactor dispatches completions — real I/O or synthetic timer
// expirations — to user handlers. The zero value is not usable; construct
// with New.
type Proactor struct {
	cq api.CompletionQueue

	tqMu  sync.Mutex // serializes TimerQueue()/SetTimerQueue() swaps only
	tq    atomic.Pointer[api.TimerQueue]
	ownTQ atomic.Bool

	thread *timerthread.Thread
	upcall *timeoutUpcall

	nThreads atomic.Int32
	closed   atomic.Bool

	control api.Control
}

// New constructs a Proactor. nThreads is a concurrency hint passed to the
// underlying completion queue (spec.md §4.1: "worker-thread concurrency N").
// A nil timerQueue installs a default List-backed queue that the Proactor
// then owns; a non-nil one must already be wired to this Proactor's upcall
// functor (see Upcall) or the timer it schedules will never dispatch.
func New(nThreads int, timerQueue api.TimerQueue, opts ...Option) (*Proactor, error) {
	o := defaultOptions(nThreads)
	for _, opt := range opts {
		opt(o)
	}

	cq := o.completionQueue
	if cq == nil {
		built, err := completionqueue.NewDefault(o.concurrency)
		if err != nil {
			return nil, api.NewError(api.ErrCodeResourceExhausted, api.ErrResourceExhausted,
				"completion queue construction failed").WithContext("os_error", err)
		}
		cq = built
	}

	p := &Proactor{cq: cq}
	p.nThreads.Store(int32(o.concurrency))

	p.upcall = newTimeoutUpcall()
	if err := p.upcall.bind(p); err != nil {
		return nil, err
	}

	owned := false
	tq := timerQueue
	if tq == nil {
		tq = timerqueue.NewListTimerQueue(p.upcall)
		owned = true
	}
	p.tq.Store(&tq)
	p.ownTQ.Store(owned)

	p.thread = timerthread.New(tq)
	go p.thread.Run()

	if o.control != nil {
		p.control = o.control
	} else {
		p.control = control.New()
	}
	p.registerControlProbes()
	p.control.OnReload(p.applyTunables)
	p.control.SetMetric("proactor.workers", o.concurrency)
	p.control.SetMetric("proactor.closed", false)

	return p, nil
}

func (p *Proactor) registerControlProbes() {
	p.control.RegisterDebugProbe("proactor.workers", func() any { return p.NumberOfThreads() })
	p.control.RegisterDebugProbe("proactor.closed", func() any { return p.closed.Load() })
	p.control.RegisterDebugProbe("proactor.pending_timers", func() any {
		tq := *p.tq.Load()
		return !tq.IsEmpty()
	})
}

// applyTunables is registered as a Control OnReload listener: it reads back
// whatever Control().SetConfig last merged in and applies the values this
// Proactor understands. Today that is just "workers", read by Stats()/
// DumpState() callers who want to change worker-count reporting without
// reaching for SetNumberOfThreads directly.
func (p *Proactor) applyTunables() {
	snap := p.control.ConfigSnapshot()
	if w, ok := snap["workers"].(int); ok && w > 0 {
		p.SetNumberOfThreads(w)
	}
}

// Upcall returns the UpcallFunctor bound to this Proactor, for callers that
// need to construct a replacement TimerQueue (e.g. to pass to
// SetTimerQueue) wired correctly.
func (p *Proactor) Upcall() api.UpcallFunctor {
	return p.upcall
}

// Control returns the ambient diagnostics facade for this Proactor.
func (p *Proactor) Control() api.Control {
	return p.control
}

// RegisterHandle associates an OS handle with the completion queue under
// the given opaque completion key (spec.md §4.1). Re-registering the same
// handle is accepted silently.
func (p *Proactor) RegisterHandle(handle api.Handle, key any) error {
	return p.cq.Associate(handle, key)
}

// ScheduleTimer schedules a one-shot timer firing at now()+delay.
func (p *Proactor) ScheduleTimer(handler api.TimeoutHandler, act api.Act, delay time.Duration) (api.TimerID, error) {
	return p.scheduleAt(handler, act, time.Now().Add(delay), 0)
}

// ScheduleRepeatingTimer schedules a timer that fires every interval,
// starting at now()+interval.
func (p *Proactor) ScheduleRepeatingTimer(handler api.TimeoutHandler, act api.Act, interval time.Duration) (api.TimerID, error) {
	return p.scheduleAt(handler, act, time.Now().Add(interval), interval)
}

// ScheduleTimerInterval schedules a timer firing first at now()+delay, then
// every interval thereafter. A zero interval is equivalent to ScheduleTimer.
func (p *Proactor) ScheduleTimerInterval(handler api.TimeoutHandler, act api.Act, delay, interval time.Duration) (api.TimerID, error) {
	return p.scheduleAt(handler, act, time.Now().Add(delay), interval)
}

func (p *Proactor) scheduleAt(handler api.TimeoutHandler, act api.Act, expires time.Time, interval time.Duration) (api.TimerID, error) {
	tq := *p.tq.Load()
	id, err := tq.Schedule(handler, act, expires, interval)
	if err != nil {
		return 0, api.NewError(api.ErrCodeResourceExhausted, api.ErrResourceExhausted,
			"timer schedule failed").WithContext("os_error", err)
	}
	// An extra wake when this node isn't actually the new earliest is
	// harmless (spec.md §4.1 cancel_timer note: "no event signal needed,
	// an extra spurious wake is harmless") — the thread just re-reads the
	// same deadline and goes back to waiting.
	p.thread.Wake()
	p.control.IncrMetric("proactor.timers_scheduled", 1)
	return id, nil
}

// CancelTimer removes the timer with the given id. Returns true if a timer
// was removed; false if it had already fired or never existed.
func (p *Proactor) CancelTimer(id api.TimerID) bool {
	tq := *p.tq.Load()
	return tq.Cancel(id)
}

// CancelTimerHandler removes every pending timer registered for handler,
// returning the count removed.
func (p *Proactor) CancelTimerHandler(handler api.TimeoutHandler) int {
	tq := *p.tq.Load()
	return tq.CancelHandler(handler)
}

// HandleEvents dequeues and dispatches a single completion, real or
// synthetic, blocking up to timeout. A negative timeout blocks forever.
// Returns 1 on a successful dispatch, 0 with ErrTimedOut on a timeout, or
// -1 with the underlying OS error on an unrecoverable dequeue failure.
func (p *Proactor) HandleEvents(timeout time.Duration) (int, error) {
	pkt, bytes, key, success, err := p.cq.Dequeue(timeout)
	if pkt == nil {
		if err == api.ErrTimedOut {
			return 0, api.ErrTimedOut
		}
		if err == nil {
			err = api.ErrOsError
		}
		return -1, err
	}
	p.dispatch(pkt, bytes, success, key, err)
	return 1, nil
}

// HandleEventsBudget behaves like HandleEvents but decrements *remaining by
// the elapsed wall-clock time, enabling tight spin loops with an overall
// time budget across many calls (spec.md §4.1 "Overloads").
func (p *Proactor) HandleEventsBudget(remaining *time.Duration) (int, error) {
	start := time.Now()
	n, err := p.HandleEvents(*remaining)
	elapsed := time.Since(start)
	*remaining -= elapsed
	if *remaining < 0 {
		*remaining = 0
	}
	return n, err
}

// dispatch invokes pkt's completion callback under a recover guard so a
// panicking handler cannot bring down the calling worker goroutine — the
// "scoped-deallocation guard" of spec.md §4.1, grounded on the teacher's
// executor.go worker.executeTask recover idiom.
func (p *Proactor) dispatch(pkt api.CompletionResult, bytesTransferred int, success bool, key any, errCode error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[proactor] completion callback panicked: %v", r)
		}
	}()
	defer p.control.IncrMetric("proactor.dispatched", 1)
	pkt.Complete(bytesTransferred, success, key, errCode)
}

// NumberOfThreads returns the configured worker-thread concurrency hint.
func (p *Proactor) NumberOfThreads() int {
	return int(p.nThreads.Load())
}

// SetNumberOfThreads updates the concurrency hint recorded for diagnostics.
// It does not itself start or stop any goroutines — callers own their
// worker threads (spec.md §9: "Cooperative worker-thread model").
func (p *Proactor) SetNumberOfThreads(n int) {
	p.nThreads.Store(int32(n))
	p.control.SetMetric("proactor.workers", n)
}

// TimerQueue returns the TimerQueue currently installed.
func (p *Proactor) TimerQueue() api.TimerQueue {
	return *p.tq.Load()
}

// SetTimerQueue installs tq in place of the current TimerQueue. If owned is
// true, the Proactor will treat tq as its own (purely a bookkeeping flag in
// this implementation, since Go's GC reclaims the old queue once
// unreferenced regardless); if false, the caller retains responsibility for
// tq's lifetime and the Proactor never touches it again after a later
// SetTimerQueue or Close. tq must already be wired to this Proactor's
// Upcall(), or its timers will never be dispatched.
func (p *Proactor) SetTimerQueue(tq api.TimerQueue, owned bool) {
	p.tqMu.Lock()
	defer p.tqMu.Unlock()
	p.tq.Store(&tq)
	p.ownTQ.Store(owned)
	p.thread.SetQueue(tq)
}

// Close tears down the Proactor in the order spec.md §4.1 requires: stop
// and join the Timer Handler Thread, drop the (possibly owned) TimerQueue,
// then close the completion queue. A worker blocked in HandleEvents
// observes the close as ErrClosed from Dequeue and returns.
func (p *Proactor) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.control.SetMetric("proactor.closed", true)
	p.thread.Stop()
	// ownTQ is not consulted here: a list/heap/wheel TimerQueue holds no OS
	// resources, so "deleting" it is just dropping the reference, which
	// happens naturally once Close returns.
	return p.cq.Close()
}
