// File: api/control.go
// Package api defines the Control interface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Control exposes read-only runtime state, push-model metrics, and
// reconfigurable tunables for a Proactor. It is ambient observability and
// control, never consulted on the dispatch hot path.
type Control interface {
	// Stats returns the latest snapshot of gauges and counters pushed
	// through SetMetric/IncrMetric.
	Stats() map[string]any

	// SetMetric overwrites a named gauge (e.g. "proactor.workers").
	SetMetric(key string, value any)

	// IncrMetric adds delta to a named monotonic counter (e.g.
	// "proactor.dispatched").
	IncrMetric(key string, delta int64)

	// RegisterDebugProbe installs a named, on-demand introspection hook
	// that DumpState re-evaluates on every call.
	RegisterDebugProbe(name string, fn func() any)

	// DumpState runs every registered probe and collects its output.
	DumpState() map[string]any

	// SetConfig merges tunable values and fires every OnReload listener.
	SetConfig(cfg map[string]any)

	// ConfigSnapshot returns a copy of the current tunables.
	ConfigSnapshot() map[string]any

	// OnReload registers a listener invoked whenever SetConfig changes
	// state.
	OnReload(fn func())
}
