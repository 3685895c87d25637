// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics, configuration, and debug introspection for a Proactor.
// Part of the goproactor ambient stack: never consulted on the dispatch hot
// path (dequeue/complete), only for diagnostics.
//
// Provides concurrent-safe state handling primitives including:
//   - Immutable snapshot config reads and atomic updates
//   - Runtime observers for config hot-reload
//   - Metrics telemetry contracts
//   - State export, debug hooks, and probe registration
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
