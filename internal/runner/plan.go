package runner

import (
	"fmt"
	"time"
)

// DispatchPlan is the precomputed schedule for a fixed-rate test: total
// dispatch instants spaced 1/rate seconds apart from a start time. Instants
// are derived from the start plus an index offset, never by accumulating
// intervals onto "now", so scheduling jitter cannot drift the later part of
// the plan.
type DispatchPlan struct {
	start    time.Time
	interval time.Duration
	total    int
}

// NewDispatchPlan builds a plan of total instants starting at start. The
// interval is rate converted to a nanosecond duration, truncated; for any
// realistic rate the truncation error stays below one nanosecond per request.
func NewDispatchPlan(start time.Time, ratePerSecond float64, total int) (*DispatchPlan, error) {
	if ratePerSecond <= 0 {
		return nil, fmt.Errorf("dispatch plan requires a positive rate, got %g", ratePerSecond)
	}
	if total < 1 {
		return nil, fmt.Errorf("dispatch plan requires at least 1 request, got %d", total)
	}
	interval := time.Duration(float64(time.Second) / ratePerSecond)
	if interval <= 0 {
		return nil, fmt.Errorf("rate %g exceeds the schedulable resolution", ratePerSecond)
	}
	return &DispatchPlan{start: start, interval: interval, total: total}, nil
}

// Len returns the number of scheduled instants.
func (p *DispatchPlan) Len() int { return p.total }

// Interval returns the spacing between consecutive instants.
func (p *DispatchPlan) Interval() time.Duration { return p.interval }

// At returns the scheduled instant for index i: start + i*interval.
func (p *DispatchPlan) At(i int) time.Time {
	return p.start.Add(time.Duration(i) * p.interval)
}

// Instants materializes the full schedule, mostly useful for inspection.
func (p *DispatchPlan) Instants() []time.Time {
	out := make([]time.Time, p.total)
	for i := range out {
		out[i] = p.At(i)
	}
	return out
}
