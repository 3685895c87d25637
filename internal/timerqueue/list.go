// File: internal/timerqueue/list.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ListTimerQueue: simple ordered-insertion TimerQueue, O(n) schedule,
// O(1) earliest. Backed by github.com/eapache/queue's ring-buffer deque —
// the teacher's go.mod already requires this dependency; this is the
// component that finally exercises it.

package timerqueue

import (
	"time"

	"github.com/eapache/queue"
	"github.com/kestrel-run/goproactor/api"
	"github.com/kestrel-run/goproactor/internal/timerutil"
)

// ListTimerQueue keeps nodes in ascending-expiry order inside an
// eapache/queue.Queue. Insertion is O(n) (drain + rebuild); Peek at the
// front is O(1).
type ListTimerQueue struct {
	mu     timerutil.RecursiveMutex
	q      *queue.Queue
	upcall api.UpcallFunctor
}

// NewListTimerQueue constructs a List-backed TimerQueue bound to upcall.
func NewListTimerQueue(upcall api.UpcallFunctor) *ListTimerQueue {
	return &ListTimerQueue{
		q:      queue.New(),
		upcall: upcall,
	}
}

var _ api.TimerQueue = (*ListTimerQueue)(nil)

func (l *ListTimerQueue) Schedule(handler api.TimeoutHandler, act api.Act, expires time.Time, interval time.Duration) (api.TimerID, error) {
	n := &node{
		id:       nextID(),
		handler:  handler,
		act:      act,
		expires:  expires.UnixNano(),
		interval: int64(interval),
	}
	l.mu.Lock()
	l.insertLocked(n)
	l.mu.Unlock()
	return n.id, nil
}

// insertLocked drains the queue, finds n's sorted position, and rebuilds.
// Must be called with mu held.
func (l *ListTimerQueue) insertLocked(n *node) {
	items := l.drainLocked()
	idx := len(items)
	for i, it := range items {
		if it.expires > n.expires {
			idx = i
			break
		}
	}
	items = append(items, nil)
	copy(items[idx+1:], items[idx:])
	items[idx] = n
	for _, it := range items {
		l.q.Add(it)
	}
}

// drainLocked empties the underlying queue into a slice. Must be called
// with mu held.
func (l *ListTimerQueue) drainLocked() []*node {
	n := l.q.Length()
	items := make([]*node, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, l.q.Remove().(*node))
	}
	return items
}

func (l *ListTimerQueue) Cancel(id api.TimerID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := l.drainLocked()
	removed := false
	for _, it := range items {
		if it.id == id && !removed {
			removed = true
			continue
		}
		l.q.Add(it)
	}
	return removed
}

func (l *ListTimerQueue) CancelHandler(handler api.TimeoutHandler) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := l.drainLocked()
	count := 0
	for _, it := range items {
		if it.handler == handler {
			count++
			continue
		}
		l.q.Add(it)
	}
	return count
}

func (l *ListTimerQueue) EarliestTime() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.q.Length() == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, l.q.Peek().(*node).expires), true
}

func (l *ListTimerQueue) IsEmpty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.q.Length() == 0
}

// Expire pops every due node and delivers it through the upcall functor.
// The recursive mutex stays held for the whole pop+deliver+reschedule cycle
// of each node (spec.md §9: "expire() invokes upcalls that may re-enter the
// queue"); this is safe because Deliver only posts a synthetic completion
// packet, it never runs user code directly (that happens later, on a
// Proactor worker thread, without any TimerQueue lock held).
func (l *ListTimerQueue) Expire(now time.Time) int {
	nowNs := now.UnixNano()
	dispatched := 0
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.q.Length() > 0 && l.q.Peek().(*node).expires <= nowNs {
		due := l.q.Remove().(*node)
		scheduled := time.Unix(0, due.expires)
		_ = l.upcall.Deliver(due.handler, due.act, scheduled)
		dispatched++

		if due.interval > 0 {
			// Re-insert the same node (same TimerID survives every
			// repeat) at prev+interval. insertLocked does not lock;
			// it runs inside the critical section the outer Lock holds.
			due.expires += due.interval
			l.insertLocked(due)
		}
	}
	return dispatched
}

func (l *ListTimerQueue) UpcallFunctor() api.UpcallFunctor {
	return l.upcall
}
