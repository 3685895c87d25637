//go:build !windows

// File: internal/completionqueue/portable.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// PortableQueue is the non-Windows api.CompletionQueue backend. It is the
// "opaque abstract queue" of spec.md §1 given a real, working
// implementation that is not a readiness-based reactor: Associate merely
// records which handles are known, and completions — real or synthetic —
// arrive exclusively through Post. There is no fd-polling loop here, so
// this satisfies the Non-goal against cross-platform reactor emulation.
//
// Grounded on the teacher's internal/concurrency/eventloop.go (goroutine +
// channel/queue idiom) and ring.go's ring-buffer shape (adapted to grow
// instead of reject, since a completion queue must never drop a posted
// packet), combined with a blocking, timeout-aware, multi-producer/
// multi-consumer wakeup built on sync.Cond — no example in the reference
// corpus offers a blocking MPMC queue with deadline support, so that one
// piece is built on the standard library rather than a corpus dependency.

package completionqueue

import (
	"sync"
	"time"

	"github.com/kestrel-run/goproactor/api"
	"github.com/kestrel-run/goproactor/internal/concurrency"
)

type packet struct {
	res              api.CompletionResult
	bytesTransferred int
	key              any
	success          bool
	err              error
}

// PortableQueue implements api.CompletionQueue without any OS-specific
// completion-port facility.
type PortableQueue struct {
	mu          sync.Mutex
	cond        *sync.Cond
	items       *concurrency.RingBuffer[packet]
	associated  map[api.Handle]any
	closed      bool
	concurrency int
	wake        waker
}

// New constructs a PortableQueue. concurrency is a sizing hint (mirrors the
// Proactor's worker-thread count) used only to seed the initial ring buffer
// capacity so typical workloads avoid an early grow.
func New(concurrency int) *PortableQueue {
	q := &PortableQueue{
		items:       newPacketRing(concurrency),
		associated:  make(map[api.Handle]any),
		concurrency: concurrency,
		wake:        newWaker(),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// FD returns the eventfd backing this queue's optional external-poll
// wakeup on Linux, or -1 on platforms without one. It is a diagnostic
// convenience only: PortableQueue's own Dequeue never reads from it.
func (q *PortableQueue) FD() int {
	return q.wake.FD()
}

func newPacketRing(concurrencyHint int) *concurrency.RingBuffer[packet] {
	if concurrencyHint <= 0 {
		concurrencyHint = 8
	}
	return concurrency.NewRingBuffer[packet](concurrencyHint * 4)
}

var _ api.CompletionQueue = (*PortableQueue)(nil)

func (q *PortableQueue) Associate(handle api.Handle, key any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return api.ErrClosed
	}
	if _, already := q.associated[handle]; already {
		// Re-registering the same handle is accepted silently, matching
		// the OS's "already associated" outcome (spec.md §4.1).
		return nil
	}
	q.associated[handle] = key
	return nil
}

func (q *PortableQueue) Post(pkt api.CompletionResult, bytesTransferred int, key any, success bool, errCode error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return api.ErrClosed
	}
	q.items.Enqueue(packet{res: pkt, bytesTransferred: bytesTransferred, key: key, success: success, err: errCode})
	q.cond.Signal()
	q.wake.signal()
	return nil
}

// Dequeue blocks up to timeout for the next packet. timeout < 0 blocks
// indefinitely; timeout == 0 returns immediately.
func (q *PortableQueue) Dequeue(timeout time.Duration) (api.CompletionResult, int, any, bool, error) {
	var deadline time.Time
	hasDeadline := timeout >= 0
	if hasDeadline {
		deadline = time.Now().Add(timeout)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Len() == 0 && !q.closed {
		if !hasDeadline {
			q.cond.Wait()
			continue
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, 0, nil, false, api.ErrTimedOut
		}
		timer := time.AfterFunc(remaining, func() {
			q.mu.Lock()
			q.cond.Broadcast()
			q.mu.Unlock()
		})
		q.cond.Wait()
		timer.Stop()
	}

	p, ok := q.items.Dequeue()
	if !ok {
		// Woken only because the queue closed.
		return nil, 0, nil, false, api.ErrClosed
	}
	return p.res, p.bytesTransferred, p.key, p.success, p.err
}

func (q *PortableQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	q.cond.Broadcast()
	q.wake.signal()
	q.wake.close()
	return nil
}

// Pending reports the number of queued, not-yet-dequeued packets. It is a
// diagnostic accessor; the Control plane does not read it.
func (q *PortableQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}
