package sorting

import (
	"time"

	"regionview/internal/graphics/device"
)

// DefaultTimerSamples is the number of measurements averaged per report.
const DefaultTimerSamples = 100

// Timer measures GPU time with two alternating elapsed-time queries. The
// result of a query is read one measurement later so reading never stalls.
// A query whose result is still unavailable is never restarted; the
// measurement that would reuse it is skipped and counted as dropped.
type Timer struct {
	cmd     device.CommandList
	queries [2]device.Query
	pending [2]bool
	current int
	running bool

	window  int
	total   time.Duration
	samples int
	average time.Duration
	dropped int
}

// NewTimer creates a timer reporting an average every window samples.
func NewTimer(cmd device.CommandList, window int) *Timer {
	if window <= 0 {
		window = DefaultTimerSamples
	}
	t := &Timer{cmd: cmd, window: window}
	for i := range t.queries {
		t.queries[i] = cmd.CreateQuery()
	}
	return t
}

// Begin starts measuring into the current query.
func (t *Timer) Begin() {
	if t.pending[t.current] && !t.collect(t.current) {
		t.dropped++
		return
	}
	t.cmd.BeginTimeElapsed(t.queries[t.current])
	t.running = true
}

// End stops the current measurement and collects the previous one. It
// returns the average once a full window has been collected.
func (t *Timer) End() (time.Duration, bool) {
	if !t.running {
		return 0, false
	}
	t.running = false
	t.cmd.EndTimeElapsed()
	t.pending[t.current] = true
	t.current ^= 1

	if t.pending[t.current] {
		t.collect(t.current)
	}
	if t.samples < t.window {
		return 0, false
	}
	t.average = t.total / time.Duration(t.samples)
	t.total = 0
	t.samples = 0
	return t.average, true
}

func (t *Timer) collect(i int) bool {
	elapsed, ok := t.cmd.QueryResult(t.queries[i])
	if !ok {
		return false
	}
	t.pending[i] = false
	t.total += elapsed
	t.samples++
	return true
}

// Average returns the last completed window average.
func (t *Timer) Average() time.Duration {
	return t.average
}

// Samples returns the size of the averaging window.
func (t *Timer) Samples() int {
	return t.window
}

// Dropped returns how many measurements were skipped because their query
// had not been read back yet.
func (t *Timer) Dropped() int {
	return t.dropped
}

// Delete frees the queries.
func (t *Timer) Delete() {
	for _, q := range t.queries {
		t.cmd.DeleteQuery(q)
	}
}
