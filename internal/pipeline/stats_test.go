package pipeline

import (
	"testing"
	"time"
)

func TestStats_SnapshotPercentiles(t *testing.T) {
	stats := NewStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms)*time.Millisecond, ms == 500)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.Failed != 1 {
		t.Errorf("expected failed=1, got %d", snap.Failed)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Errorf("expected min=100 max=500, got %d/%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Errorf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Errorf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Errorf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Errorf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestStats_PrunesExpiredSamples(t *testing.T) {
	stats := NewStats(10 * time.Millisecond)
	stats.Record(100*time.Millisecond, false)
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200*time.Millisecond, false)
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestStats_ClampsNegativeDuration(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record(-5*time.Millisecond, false)
	if snap := stats.Snapshot(); snap.MinMs != 0 {
		t.Errorf("expected clamped min=0, got %d", snap.MinMs)
	}
}

func TestStats_Empty(t *testing.T) {
	if snap := NewStats(0).Snapshot(); snap != (StatsSnapshot{}) {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
}
