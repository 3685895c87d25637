package control

import (
	"testing"
	"time"
)

func TestControlStatsReflectsSetMetric(t *testing.T) {
	c := New()
	c.SetMetric("workers", 4)
	stats := c.Stats()
	if stats["workers"] != 4 {
		t.Fatalf("Stats()[workers] = %v, want 4", stats["workers"])
	}
}

func TestControlIncrMetricAccumulates(t *testing.T) {
	c := New()
	c.IncrMetric("dispatched", 3)
	c.IncrMetric("dispatched", 4)
	stats := c.Stats()
	if stats["dispatched"] != int64(7) {
		t.Fatalf("Stats()[dispatched] = %v, want 7", stats["dispatched"])
	}
}

func TestControlDumpStateRunsRegisteredProbes(t *testing.T) {
	c := New()
	c.RegisterDebugProbe("answer", func() any { return 42 })
	state := c.DumpState()
	if state["answer"] != 42 {
		t.Fatalf("DumpState()[answer] = %v, want 42", state["answer"])
	}
	if _, ok := state["platform.cpus"]; !ok {
		t.Fatal("DumpState missing platform probe registered by New()")
	}
	if _, ok := state["platform.goroutines"]; !ok {
		t.Fatal("DumpState missing platform.goroutines probe registered by New()")
	}
}

func TestControlOnReloadFiresOnSetConfig(t *testing.T) {
	c := New()
	done := make(chan struct{})
	c.OnReload(func() { close(done) })
	c.SetConfig(map[string]any{"x": 1})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("OnReload listener did not fire")
	}
}
