package timerqueue

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/kestrel-run/goproactor/api"
)

// recordingUpcall captures every Deliver call instead of posting through a
// real completion queue, so these tests exercise TimerQueue in isolation.
type recordingUpcall struct {
	delivered int64
	last      struct {
		handler api.TimeoutHandler
		act     api.Act
	}
}

func (u *recordingUpcall) Deliver(handler api.TimeoutHandler, act api.Act, scheduled time.Time) error {
	atomic.AddInt64(&u.delivered, 1)
	u.last.handler = handler
	u.last.act = act
	return nil
}

type countingHandler struct {
	fires int64
}

func (h *countingHandler) HandleTimeout(scheduled time.Time, act api.Act) {
	atomic.AddInt64(&h.fires, 1)
}

func variants(t *testing.T) map[string]func(api.UpcallFunctor) api.TimerQueue {
	return map[string]func(api.UpcallFunctor) api.TimerQueue{
		"list": func(u api.UpcallFunctor) api.TimerQueue { return NewListTimerQueue(u) },
		"heap": func(u api.UpcallFunctor) api.TimerQueue { return NewHeapTimerQueue(u) },
		"wheel": func(u api.UpcallFunctor) api.TimerQueue {
			return NewWheelTimerQueue(u, 64, time.Millisecond)
		},
	}
}

func TestScheduleAndExpireOrdersByDeadline(t *testing.T) {
	for name, build := range variants(t) {
		t.Run(name, func(t *testing.T) {
			up := &recordingUpcall{}
			q := build(up)
			h := &countingHandler{}

			base := time.Now()
			_, _ = q.Schedule(h, 1, base.Add(30*time.Millisecond), 0)
			_, _ = q.Schedule(h, 2, base.Add(10*time.Millisecond), 0)
			_, _ = q.Schedule(h, 3, base.Add(20*time.Millisecond), 0)

			if q.IsEmpty() {
				t.Fatal("queue reports empty after three schedules")
			}
			earliest, ok := q.EarliestTime()
			if !ok {
				t.Fatal("EarliestTime reported not-ok on non-empty queue")
			}
			if earliest.After(base.Add(15 * time.Millisecond)) {
				t.Fatalf("earliest = %v, want close to base+10ms", earliest)
			}

			n := q.Expire(base.Add(25 * time.Millisecond))
			if n != 2 {
				t.Fatalf("Expire dispatched %d nodes, want 2", n)
			}
			if atomic.LoadInt64(&up.delivered) != 2 {
				t.Fatalf("upcall delivered %d times, want 2", up.delivered)
			}

			n = q.Expire(base.Add(100 * time.Millisecond))
			if n != 1 {
				t.Fatalf("final Expire dispatched %d nodes, want 1", n)
			}
			if !q.IsEmpty() {
				t.Fatal("queue not empty after all nodes expired")
			}
		})
	}
}

func TestCancelByIDPreventsDispatch(t *testing.T) {
	for name, build := range variants(t) {
		t.Run(name, func(t *testing.T) {
			up := &recordingUpcall{}
			q := build(up)
			h := &countingHandler{}

			id, _ := q.Schedule(h, nil, time.Now().Add(5*time.Millisecond), 0)
			if !q.Cancel(id) {
				t.Fatal("Cancel reported no node removed")
			}
			if q.Cancel(id) {
				t.Fatal("Cancel on an already-cancelled id reported success")
			}
			n := q.Expire(time.Now().Add(time.Second))
			if n != 0 {
				t.Fatalf("Expire dispatched %d nodes after cancel, want 0", n)
			}
		})
	}
}

func TestCancelByHandlerRemovesAll(t *testing.T) {
	for name, build := range variants(t) {
		t.Run(name, func(t *testing.T) {
			up := &recordingUpcall{}
			q := build(up)
			h1 := &countingHandler{}
			h2 := &countingHandler{}

			q.Schedule(h1, nil, time.Now().Add(5*time.Millisecond), 0)
			q.Schedule(h1, nil, time.Now().Add(6*time.Millisecond), 0)
			q.Schedule(h2, nil, time.Now().Add(7*time.Millisecond), 0)

			removed := q.CancelHandler(h1)
			if removed != 2 {
				t.Fatalf("CancelHandler removed %d, want 2", removed)
			}
			n := q.Expire(time.Now().Add(time.Second))
			if n != 1 {
				t.Fatalf("Expire dispatched %d nodes, want 1 (h2's)", n)
			}
		})
	}
}

// TestRepeatingTimerKeepsSameID verifies that a repeating timer's identity
// survives every re-insertion, so a caller who saved the id from Schedule
// can still cancel a timer that has already fired several times.
func TestRepeatingTimerKeepsSameID(t *testing.T) {
	for name, build := range variants(t) {
		t.Run(name, func(t *testing.T) {
			up := &recordingUpcall{}
			q := build(up)
			h := &countingHandler{}

			base := time.Now()
			id, _ := q.Schedule(h, nil, base.Add(10*time.Millisecond), 10*time.Millisecond)

			n := q.Expire(base.Add(35 * time.Millisecond))
			if n < 2 {
				t.Fatalf("Expire dispatched %d repeats by +35ms, want >=2", n)
			}
			if !q.Cancel(id) {
				t.Fatal("Cancel on a repeating timer's original id failed after it had already repeated")
			}
			n = q.Expire(base.Add(time.Second))
			if n != 0 {
				t.Fatalf("Expire dispatched %d nodes after cancelling the repeater, want 0", n)
			}
		})
	}
}

func TestUpcallFunctorAccessor(t *testing.T) {
	for name, build := range variants(t) {
		t.Run(name, func(t *testing.T) {
			up := &recordingUpcall{}
			q := build(up)
			if q.UpcallFunctor() != up {
				t.Fatal("UpcallFunctor did not return the functor the queue was built with")
			}
		})
	}
}
