package profiling

import (
	"testing"
	"time"
)

func TestTopNOrdersByDuration(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["a"] = 2 * time.Millisecond
	frameTotals["b"] = 4200 * time.Microsecond
	frameTotals["c"] = time.Millisecond
	mu.Unlock()

	if got, want := TopN(2), "b:4.2ms, a:2ms"; got != want {
		t.Fatalf("TopN: got %q, want %q", got, want)
	}
	ResetFrame()
	if len(Snapshot()) != 0 {
		t.Fatalf("ResetFrame must clear totals")
	}
}

func TestGPUAveragesSurviveReset(t *testing.T) {
	RecordGPU("render.translucentSort", 1500*time.Microsecond)
	ResetFrame()
	if got := GPUSnapshot()["render.translucentSort"]; got != 1500*time.Microsecond {
		t.Fatalf("gpu average: got %v", got)
	}
	if got := TopGPU(1); got != "render.translucentSort:1.5ms" {
		t.Fatalf("TopGPU: got %q", got)
	}
}

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	Track("x")()
	Track("x")()
	if _, ok := Snapshot()["x"]; !ok {
		t.Fatalf("tracked name missing")
	}
}
