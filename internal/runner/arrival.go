package runner

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"
)

// arrivalController decides when dispatch i may fire.
type arrivalController interface {
	Wait(ctx context.Context, i int) error
}

func newArrivalController(opt Options, plan *DispatchPlan) arrivalController {
	switch opt.ArrivalModel {
	case ArrivalModelPoisson:
		var sampler func() float64
		if opt.PoissonSampler != nil {
			sampler = opt.PoissonSampler
		} else {
			seeded := rand.New(rand.NewSource(opt.RandomSeed))
			sampler = seeded.ExpFloat64
		}
		return &poissonArrival{rate: opt.RatePerSecond, sample: sampler}
	default:
		return &planArrival{plan: plan}
	}
}

// planArrival paces against the absolute instants of a DispatchPlan. A late
// instant fires immediately; the schedule never bursts to catch up because
// each subsequent instant is still anchored to the plan's start time.
type planArrival struct {
	plan *DispatchPlan
}

func (u *planArrival) Wait(ctx context.Context, i int) error {
	if u == nil || u.plan == nil {
		return nil
	}
	delay := time.Until(u.plan.At(i))
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// poissonArrival samples exponential inter-arrival times to approximate a
// Poisson process at the configured mean rate.
type poissonArrival struct {
	mu     sync.Mutex
	rate   float64
	sample func() float64
}

func (p *poissonArrival) Wait(ctx context.Context, _ int) error {
	delay := p.nextDelay()
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *poissonArrival) nextDelay() time.Duration {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rate <= 0 || p.sample == nil {
		return 0
	}

	value := p.sample()
	delay := float64(time.Second) * value / p.rate
	if delay > math.MaxInt64 {
		delay = math.MaxInt64
	}
	return time.Duration(delay)
}
