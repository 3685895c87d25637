// Package timerutil holds small concurrency primitives shared by the
// TimerQueue backends.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RecursiveMutex lets TimerQueue.Expire hold its queue's lock while invoking
// the upcall functor, so that an upcall functor calling back into the same
// queue on that goroutine does not deadlock. The backends in this module
// re-insert repeating nodes through their own unlocked helpers, so their
// own code never re-locks.

package timerutil

import (
	"runtime"
	"sync"
	"time"
)

// RecursiveMutex is a mutex that the owning goroutine may re-lock without
// deadlocking itself. No package in the reference corpus implements or
// needs a recursive mutex — sync.Mutex is not reentrant and no pack example
// reaches for a third-party one — so there is no grounding source for this
// file beyond the standard library. Goroutine identity is recovered by
// parsing the "goroutine NNN" prefix off a runtime.Stack dump: an
// unofficial but commonly used idiom (the Go runtime exposes no public
// goroutine-id API), confined entirely to this file and never relied on
// for anything beyond detecting same-goroutine re-entry.
type RecursiveMutex struct {
	mu    sync.Mutex
	owner uint64
	depth int
}

// Lock acquires the mutex. If the calling goroutine already holds it, Lock
// just increments the re-entrance depth and returns immediately.
func (m *RecursiveMutex) Lock() {
	id := goroutineID()
	m.mu.Lock()
	if m.owner == id && m.depth > 0 {
		m.depth++
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.acquire(id)
}

func (m *RecursiveMutex) acquire(id uint64) {
	for {
		m.mu.Lock()
		if m.depth == 0 {
			m.owner = id
			m.depth = 1
			m.mu.Unlock()
			return
		}
		if m.owner == id {
			m.depth++
			m.mu.Unlock()
			return
		}
		m.mu.Unlock()
		runtime.Gosched()
		time.Sleep(time.Microsecond)
	}
}

// Unlock releases one level of re-entrance. The final Unlock by the owning
// goroutine makes the mutex available to others.
func (m *RecursiveMutex) Unlock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.depth == 0 || m.owner != goroutineID() {
		panic("timerutil: Unlock of unheld RecursiveMutex")
	}
	m.depth--
	if m.depth == 0 {
		m.owner = 0
	}
}

func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
