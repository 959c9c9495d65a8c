package runner

import (
	"context"
	"time"
)

// Requester abstracts issuing a single request over the shared connection.
// Implementations must be safe for concurrent calls and return an error for
// failed requests.
type Requester interface {
	Do(ctx context.Context) error
}

// Recorder receives request outcomes and in-flight samples. Implementations
// must be safe for concurrent calls; *metrics.Collector satisfies this.
type Recorder interface {
	RecordRequest(latency time.Duration, err error)
	RecordInFlight(n int64)
}

type ArrivalModel string

const (
	// ArrivalModelUniform fires at fixed instants computed from the test
	// start time (index times 1/rate).
	ArrivalModelUniform ArrivalModel = "uniform"
	// ArrivalModelPoisson samples exponential inter-arrival delays.
	ArrivalModelPoisson ArrivalModel = "poisson"
)

// Options configure the Runner.
type Options struct {
	RatePerSecond  float64        // target dispatch rate, must be > 0
	TotalRequests  int            // total requests to dispatch, must be >= 1
	Requester      Requester      // request executor (required)
	Recorder       Recorder       // outcome sink (required)
	ArrivalModel   ArrivalModel   // pacing model, defaults to uniform
	RandomSeed     int64          // seed for the poisson sampler
	PoissonSampler func() float64 // optional injection for tests
}

func (o *Options) normalize() {
	if o.ArrivalModel == "" {
		o.ArrivalModel = ArrivalModelUniform
	}
	if o.RandomSeed == 0 {
		o.RandomSeed = time.Now().UnixNano()
	}
}
