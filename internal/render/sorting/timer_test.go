package sorting

import (
	"testing"
	"time"

	"regionview/internal/graphics/device/devicetest"
)

func TestTimerAveragesPreviousQueries(t *testing.T) {
	rec := devicetest.NewRecorder(0)
	rec.QueryTime = 3 * time.Millisecond
	tm := NewTimer(rec, 2)

	results := make([]bool, 0, 3)
	for i := 0; i < 3; i++ {
		tm.Begin()
		_, ok := tm.End()
		results = append(results, ok)
	}
	if results[0] || results[1] || !results[2] {
		t.Fatalf("expected an average only after two collected samples, got %v", results)
	}
	if tm.Average() != 3*time.Millisecond {
		t.Fatalf("average: got %v, want 3ms", tm.Average())
	}
}

func TestTimerSkipsMeasurementWhileQueryPending(t *testing.T) {
	rec := devicetest.NewRecorder(0)
	rec.QueryTime = 2 * time.Millisecond
	tm := NewTimer(rec, 2)

	tm.Begin()
	tm.End()

	// The read of the first query after the second measurement and the
	// retry before the third both find it unavailable.
	rec.QueryBusy = 2
	tm.Begin()
	if _, ok := tm.End(); ok {
		t.Fatalf("no average expected yet")
	}
	tm.Begin()
	if _, ok := tm.End(); ok {
		t.Fatalf("a skipped measurement must not report")
	}
	if tm.Dropped() != 1 {
		t.Fatalf("dropped: got %d, want 1", tm.Dropped())
	}

	tm.Begin()
	avg, ok := tm.End()
	if !ok || avg != 2*time.Millisecond {
		t.Fatalf("got (%v, %v), want (2ms, true)", avg, ok)
	}

	begins := rec.Filter(devicetest.OpBeginQuery)
	if len(begins) != 3 || rec.Count(devicetest.OpEndQuery) != 3 {
		t.Fatalf("expected three measured sorts, got %d begins and %d ends", len(begins), rec.Count(devicetest.OpEndQuery))
	}
	for i := 1; i < len(begins); i++ {
		if begins[i].Index == begins[i-1].Index {
			t.Fatalf("query %d restarted before it was read", begins[i].Index)
		}
	}
}
