// control/control.go
// Author: momentics <momentics@gmail.com>
//
// Control assembles Tunables, Counters and a ProbeRegistry into the single
// api.Control facade a Proactor exposes through Control(). None of its
// methods sit on the dispatch hot path; all are safe to call from any
// goroutine at any time.

package control

import "github.com/kestrel-run/goproactor/api"

// Control is the concrete, ambient-only implementation of api.Control.
type Control struct {
	tunables *Tunables
	counters *Counters
	probes   *ProbeRegistry
}

var _ api.Control = (*Control)(nil)

// New constructs a Control with its platform debug probes pre-registered.
func New() *Control {
	c := &Control{
		tunables: NewTunables(),
		counters: NewCounters(),
		probes:   NewProbeRegistry(),
	}
	RegisterPlatformProbes(c.probes)
	return c
}

// Stats returns the latest snapshot of gauges and counters pushed through
// SetMetric/IncrMetric.
func (c *Control) Stats() map[string]any {
	return c.counters.Snapshot()
}

// SetMetric overwrites a named gauge.
func (c *Control) SetMetric(key string, value any) {
	c.counters.SetGauge(key, value)
}

// IncrMetric adds delta to a named monotonic counter.
func (c *Control) IncrMetric(key string, delta int64) {
	c.counters.Incr(key, delta)
}

// RegisterDebugProbe installs a named, on-demand introspection hook.
func (c *Control) RegisterDebugProbe(name string, fn func() any) {
	c.probes.Register(name, fn)
}

// DumpState runs every registered probe and collects its output.
func (c *Control) DumpState() map[string]any {
	return c.probes.Collect()
}

// SetConfig merges tunable values and fires any OnReload listeners. In
// production this is how Proactor.SetNumberOfThreads gets driven at
// runtime: see the OnReload registration in proactor.New.
func (c *Control) SetConfig(cfg map[string]any) {
	c.tunables.Set(cfg)
}

// ConfigSnapshot returns a copy of the current tunables.
func (c *Control) ConfigSnapshot() map[string]any {
	return c.tunables.Snapshot()
}

// OnReload registers a listener invoked whenever SetConfig changes state.
func (c *Control) OnReload(fn func()) {
	c.tunables.OnChange(fn)
}
