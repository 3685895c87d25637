package timerthread

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/kestrel-run/goproactor/api"
)

type fakeTimerQueue struct {
	earliest    time.Time
	hasEarliest bool
	expireCalls int64
}

func (q *fakeTimerQueue) Schedule(api.TimeoutHandler, api.Act, time.Time, time.Duration) (api.TimerID, error) {
	return 0, nil
}
func (q *fakeTimerQueue) Cancel(api.TimerID) bool          { return false }
func (q *fakeTimerQueue) CancelHandler(api.TimeoutHandler) int { return 0 }
func (q *fakeTimerQueue) EarliestTime() (time.Time, bool) { return q.earliest, q.hasEarliest }
func (q *fakeTimerQueue) IsEmpty() bool                    { return !q.hasEarliest }
func (q *fakeTimerQueue) Expire(now time.Time) int {
	atomic.AddInt64(&q.expireCalls, 1)
	return 0
}
func (q *fakeTimerQueue) UpcallFunctor() api.UpcallFunctor { return nil }

func TestThreadExpiresOnDeadline(t *testing.T) {
	q := &fakeTimerQueue{earliest: time.Now().Add(20 * time.Millisecond), hasEarliest: true}
	th := New(q)
	go th.Run()
	defer th.Stop()

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt64(&q.expireCalls) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timer thread never called Expire on an empty-but-due queue")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestThreadWaitsIndefinitelyWhenEmpty(t *testing.T) {
	q := &fakeTimerQueue{}
	th := New(q)
	go th.Run()
	defer th.Stop()

	time.Sleep(30 * time.Millisecond)
	if atomic.LoadInt64(&q.expireCalls) != 0 {
		t.Fatal("Expire called on an empty queue with no Wake")
	}
}

func TestThreadStopIsIdempotentAndBounded(t *testing.T) {
	q := &fakeTimerQueue{}
	th := New(q)
	go th.Run()

	done := make(chan struct{})
	go func() {
		th.Stop()
		th.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return within a bounded delay")
	}
}
