// Package timerthread implements the dedicated Timer Handler Thread
// described in spec.md §4.3: a single goroutine that races an auto-reset
// event against the earliest pending TimerQueue deadline, and calls
// Expire() whenever that race is won by the clock.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Grounded on the teacher's internal/concurrency/eventloop.go
// goroutine-plus-channel idiom (stopCh/running/doneCh lifecycle).
//
// An earlier revision also carried a golang.org/x/sys/cpu-informed branch
// here, grounded on internal/concurrency/scheduler.go's cpu.X86.HasSSE2
// check, as a "cache-warming" double read of the earliest deadline. It was
// removed: the second read discarded the first read's result and the
// branch changed no observable behavior, so it was decorative rather than
// a real use of that dependency. golang.org/x/sys/cpu is not wired into
// this module; see DESIGN.md.
package timerthread

import (
	"sync/atomic"
	"time"

	"github.com/kestrel-run/goproactor/api"
)

// Event is an auto-reset event: a single pending signal, coalesced if
// raised multiple times before it is observed.
type Event struct {
	ch chan struct{}
}

// NewEvent constructs a ready-to-use auto-reset event.
func NewEvent() *Event {
	return &Event{ch: make(chan struct{}, 1)}
}

// Signal raises the event. Non-blocking: a signal already pending is not
// duplicated.
func (e *Event) Signal() {
	select {
	case e.ch <- struct{}{}:
	default:
	}
}

// Thread runs the timer handler loop described in spec.md §4.3. It owns no
// TimerQueue; one is supplied at construction and may be swapped at runtime
// by the owning Proactor (spec.md §4.1's TimerQueue setter semantics) via
// SetQueue.
type Thread struct {
	queue   atomic.Pointer[api.TimerQueue]
	wake    *Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	running atomic.Bool
	stopped atomic.Bool
}

// New constructs a Thread bound to queue. Call Run in its own goroutine.
func New(queue api.TimerQueue) *Thread {
	t := &Thread{
		wake:   NewEvent(),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	t.queue.Store(&queue)
	return t
}

// SetQueue atomically swaps the TimerQueue the thread waits on, then raises
// Wake so a thread currently blocked on the old queue's deadline picks up
// the new queue immediately.
func (t *Thread) SetQueue(queue api.TimerQueue) {
	t.queue.Store(&queue)
	t.Wake()
}

// Wake raises the auto-reset event, causing the run loop to re-evaluate the
// earliest deadline immediately — used after every Schedule and every
// TimerQueue swap. Cancellation does not wake the thread; at worst it wakes
// once more than needed at the cancelled deadline.
func (t *Thread) Wake() {
	t.wake.Signal()
}

// Run blocks, servicing timer expirations, until Stop is called. It must be
// invoked from its own goroutine.
func (t *Thread) Run() {
	if !t.running.CompareAndSwap(false, true) {
		return
	}
	defer close(t.doneCh)

	for {
		select {
		case <-t.stopCh:
			return
		default:
		}

		q := *t.queue.Load()
		deadline, ok := q.EarliestTime()
		if !ok {
			select {
			case <-t.wake.ch:
				continue
			case <-t.stopCh:
				return
			}
		}

		wait := time.Until(deadline)
		if wait <= 0 {
			q.Expire(time.Now())
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
			q.Expire(time.Now())
		case <-t.wake.ch:
			timer.Stop()
		case <-t.stopCh:
			timer.Stop()
			return
		}
	}
}

// Stop signals the run loop to exit and blocks until it has. If Run has not
// started yet, Run returns as soon as it does.
func (t *Thread) Stop() {
	if !t.stopped.CompareAndSwap(false, true) {
		return
	}
	close(t.stopCh)
	if t.running.Load() {
		<-t.doneCh
	}
}
