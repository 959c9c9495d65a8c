package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Result captures execution summary.
type Result struct {
	Dispatched int64
	Duration   time.Duration
}

// Runner drives a load test: it walks the dispatch schedule, fires one
// goroutine per instant without waiting on earlier completions, tracks the
// in-flight count, and drains all outstanding work before the caller reads
// the final report.
type Runner struct {
	opt      Options
	inFlight int64
}

func New(opt Options) (*Runner, error) {
	opt.normalize()
	if opt.Requester == nil {
		return nil, errors.New("runner requires a requester")
	}
	if opt.Recorder == nil {
		return nil, errors.New("runner requires a recorder")
	}
	if opt.RatePerSecond <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %g", opt.RatePerSecond)
	}
	if opt.TotalRequests < 1 {
		return nil, fmt.Errorf("total must be at least 1, got %d", opt.TotalRequests)
	}
	return &Runner{opt: opt}, nil
}

// Run executes the test to completion. Requests that fail are absorbed into
// the recorded outcomes and never abort the run; cancelling ctx stops further
// dispatching but still drains whatever is in flight.
func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()

	// The plan is anchored to the run's start; building it cannot fail here
	// because New validated rate and total.
	plan, err := NewDispatchPlan(start, r.opt.RatePerSecond, r.opt.TotalRequests)
	if err != nil {
		panic(fmt.Sprintf("runner: invalid dispatch plan after validation: %v", err))
	}
	arrival := newArrivalController(r.opt, plan)

	// Baseline sample before any dispatch.
	r.opt.Recorder.RecordInFlight(0)

	var dispatched int64
	var wg sync.WaitGroup
	for i := 0; i < plan.Len(); i++ {
		if err := arrival.Wait(ctx, i); err != nil {
			break
		}
		dispatched++
		n := atomic.AddInt64(&r.inFlight, 1)
		r.opt.Recorder.RecordInFlight(n)
		wg.Add(1)
		r.dispatch(ctx, &wg)
	}

	// Drain: the report must never be computed with work still in flight.
	wg.Wait()

	return Result{
		Dispatched: dispatched,
		Duration:   time.Since(start),
	}
}

// dispatch launches one request goroutine. Concurrency is bounded only by the
// total request count; an admission policy would slot in here.
func (r *Runner) dispatch(ctx context.Context, wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()
		begin := time.Now()
		err := r.opt.Requester.Do(ctx)
		latency := time.Since(begin)

		n := atomic.AddInt64(&r.inFlight, -1)
		r.opt.Recorder.RecordInFlight(n)
		r.opt.Recorder.RecordRequest(latency, err)
	}()
}
