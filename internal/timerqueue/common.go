// Package timerqueue provides the three TimerQueue backends named by
// spec.md §4.2: an insertion-ordered list, a binary heap, and a hashed
// timing wheel. All three share the api.TimerQueue contract and the
// re-entrant locking discipline described in spec.md §9.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package timerqueue

import (
	"sync/atomic"

	"github.com/kestrel-run/goproactor/api"
)

var idCounter atomic.Int64

func nextID() api.TimerID {
	return api.TimerID(idCounter.Add(1))
}

// node is the mutable, internally-owned counterpart of api.TimerNode.
// Backends copy out an api.TimerNode snapshot when they need to hand one to
// a caller; internally they mutate node.expires in place on each repeat.
type node struct {
	id       api.TimerID
	handler  api.TimeoutHandler
	act      api.Act
	expires  int64 // UnixNano, for cheap comparison
	interval int64 // nanoseconds, 0 = one-shot
}
