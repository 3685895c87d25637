// File: internal/timerqueue/heap.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// HeapTimerQueue: binary min-heap TimerQueue, O(log n) schedule and
// cancel-by-id. Grounded on the teacher's internal/concurrency/scheduler.go,
// which sketched a container/heap-based priority queue for timed tasks.

package timerqueue

import (
	"container/heap"
	"time"

	"github.com/kestrel-run/goproactor/api"
	"github.com/kestrel-run/goproactor/internal/timerutil"
)

// heapItem is a node plus its current index in the heap slice, needed for
// O(log n) removal by id (heap.Fix/heap.Remove require the index).
type heapItem struct {
	n     *node
	index int
}

type nodeHeap []*heapItem

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].n.expires < h[j].n.expires }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *nodeHeap) Push(x any) {
	it := x.(*heapItem)
	it.index = len(*h)
	*h = append(*h, it)
}
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// HeapTimerQueue is a binary-heap-backed TimerQueue.
type HeapTimerQueue struct {
	mu     timerutil.RecursiveMutex
	h      nodeHeap
	byID   map[api.TimerID]*heapItem
	upcall api.UpcallFunctor
}

// NewHeapTimerQueue constructs a heap-backed TimerQueue bound to upcall.
func NewHeapTimerQueue(upcall api.UpcallFunctor) *HeapTimerQueue {
	return &HeapTimerQueue{
		byID:   make(map[api.TimerID]*heapItem),
		upcall: upcall,
	}
}

var _ api.TimerQueue = (*HeapTimerQueue)(nil)

func (q *HeapTimerQueue) Schedule(handler api.TimeoutHandler, act api.Act, expires time.Time, interval time.Duration) (api.TimerID, error) {
	n := &node{
		id:       nextID(),
		handler:  handler,
		act:      act,
		expires:  expires.UnixNano(),
		interval: int64(interval),
	}
	q.mu.Lock()
	q.pushLocked(n)
	q.mu.Unlock()
	return n.id, nil
}

func (q *HeapTimerQueue) pushLocked(n *node) {
	it := &heapItem{n: n}
	heap.Push(&q.h, it)
	q.byID[n.id] = it
}

func (q *HeapTimerQueue) Cancel(id api.TimerID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	it, ok := q.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&q.h, it.index)
	delete(q.byID, id)
	return true
}

func (q *HeapTimerQueue) CancelHandler(handler api.TimeoutHandler) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	var ids []api.TimerID
	for id, it := range q.byID {
		if it.n.handler == handler {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		it := q.byID[id]
		heap.Remove(&q.h, it.index)
		delete(q.byID, id)
	}
	return len(ids)
}

func (q *HeapTimerQueue) EarliestTime() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.h) == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, q.h[0].n.expires), true
}

func (q *HeapTimerQueue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.h) == 0
}

func (q *HeapTimerQueue) Expire(now time.Time) int {
	nowNs := now.UnixNano()
	dispatched := 0
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.h) > 0 && q.h[0].n.expires <= nowNs {
		it := heap.Pop(&q.h).(*heapItem)
		delete(q.byID, it.n.id)
		scheduled := time.Unix(0, it.n.expires)
		_ = q.upcall.Deliver(it.n.handler, it.n.act, scheduled)
		dispatched++

		if it.n.interval > 0 {
			it.n.expires += it.n.interval
			q.pushLocked(it.n)
		}
	}
	return dispatched
}

func (q *HeapTimerQueue) UpcallFunctor() api.UpcallFunctor {
	return q.upcall
}
