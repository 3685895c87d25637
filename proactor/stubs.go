// File: proactor/stubs.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RunEventLoop, EndEventLoop, WakeUpDispatchThreads and EventLoopDone mirror
// methods that exist on the original source's Proactor but whose intent was
// never resolved there — they always returned 0 with no documented effect.
// spec.md §9's open question on these instructs not to guess: rather than
// silently succeeding (the original's behavior) or omitting them (breaking
// callers ported from that API), each returns ErrNotImplemented explicitly.

package proactor

import "github.com/kestrel-run/goproactor/api"

// RunEventLoop is unimplemented; see the package doc comment above.
func (p *Proactor) RunEventLoop() error {
	return api.ErrNotImplemented
}

// EndEventLoop is unimplemented; see the package doc comment above.
func (p *Proactor) EndEventLoop() error {
	return api.ErrNotImplemented
}

// WakeUpDispatchThreads is unimplemented; see the package doc comment above.
func (p *Proactor) WakeUpDispatchThreads() error {
	return api.ErrNotImplemented
}

// EventLoopDone is unimplemented; see the package doc comment above.
func (p *Proactor) EventLoopDone() (bool, error) {
	return false, api.ErrNotImplemented
}
