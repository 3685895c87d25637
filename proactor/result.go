// File: proactor/result.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// asynchTimerResult specializes CompletionResult (spec.md §4.5/§4.6): its
// Complete callback simply invokes HandleTimeout on the target handler.

package proactor

import (
	"time"

	"github.com/kestrel-run/goproactor/api"
)

// asynchTimerResult carries a timer handler, its act token, and the
// scheduled (not actual-fire) time through the completion queue. It is
// allocated once per expiration by the timeout upcall and dispatched
// exactly once.
type asynchTimerResult struct {
	handler   api.TimeoutHandler
	act       api.Act
	scheduled time.Time
}

var _ api.CompletionResult = (*asynchTimerResult)(nil)

// Complete runs on whichever worker goroutine dequeues this packet.
// bytesTransferred, success, and completionKey are meaningless for a
// synthetic timer completion and are ignored.
func (r *asynchTimerResult) Complete(bytesTransferred int, success bool, completionKey any, errCode error) {
	r.handler.HandleTimeout(r.scheduled, r.act)
}
