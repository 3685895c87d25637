// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// ProbeRegistry is the pull side of the control plane: named zero-arg
// callbacks a Proactor registers once (its worker count, whether it has
// been closed, whether any timers are pending) that Collect re-invokes on
// every call, so a probe's value is never stale the way a pushed gauge can
// be between updates. Registration order is recorded and returned by
// Names(); Collect (and so DumpState) returns a map, whose iteration order
// Go does not define.

package control

import "sync"

// ProbeRegistry holds registered, on-demand debug hooks.
type ProbeRegistry struct {
	mu     sync.RWMutex
	probes map[string]func() any
	order  []string
}

// NewProbeRegistry creates an empty registry.
func NewProbeRegistry() *ProbeRegistry {
	return &ProbeRegistry{probes: make(map[string]func() any)}
}

// Register inserts or replaces a named debug hook.
func (r *ProbeRegistry) Register(name string, fn func() any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.probes[name]; !exists {
		r.order = append(r.order, name)
	}
	r.probes[name] = fn
}

// Collect invokes every registered probe and returns its output, in
// registration order of the keys (map iteration order itself is not
// meaningful for the returned map, but Names() exposes the stable order).
func (r *ProbeRegistry) Collect() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.probes))
	for _, name := range r.order {
		out[name] = r.probes[name]()
	}
	return out
}

// Names returns the registered probe names in registration order.
func (r *ProbeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
