// Package runner provides the load-generation engine for h2pace.
//
// The runner walks through the phases of a test in order: a dispatch plan is
// built from the rate and total request count, each scheduled instant fires
// one independent request goroutine (never waiting on prior completions), and
// a drain barrier holds Run open until every outstanding request has finished.
//
// # Basic Usage
//
//	r, err := runner.New(runner.Options{
//		RatePerSecond: 50,
//		TotalRequests: 100,
//		Requester:     myRequester,
//		Recorder:      collector,
//	})
//	if err != nil {
//		return err
//	}
//	result := r.Run(ctx)
//
// # Pacing
//
// The default [ArrivalModelUniform] computes every dispatch instant up front
// as start + i*(1/rate), so jitter in one dispatch never shifts later ones.
// When the loop falls behind schedule it fires immediately and moves on; it
// never bursts multiple requests to catch up. [ArrivalModelPoisson] instead
// samples exponential inter-arrival delays for open-loop style traffic.
//
// # Recording
//
// The [Recorder] interface receives one outcome per request plus an in-flight
// sample on every concurrency transition (test start, each dispatch, each
// completion). Outcomes arrive in completion order, which is unrelated to
// dispatch order.
//
// # Middleware
//
// [WithLogging] wraps a [Requester] to report failures as they happen.
package runner
