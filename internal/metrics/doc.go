// Package metrics aggregates per-request outcomes into a final load test
// report.
//
// The central [Collector] type is the single owner of all shared counters.
// Request goroutines call [Collector.RecordRequest] and
// [Collector.RecordInFlight] concurrently; both serialize on one mutex so no
// outcome is lost under arbitrary completion interleaving.
//
//	collector := metrics.NewCollector()
//	collector.Start()
//
//	// From any goroutine:
//	collector.RecordRequest(latency, err)
//	collector.RecordInFlight(current)
//
//	// After the drain barrier:
//	report := collector.Report(elapsed)
//
// [Report] carries the headline numbers (success rate, exact median latency,
// average in-flight concurrency) plus supplementary detail: min/mean/max,
// HdrHistogram-backed P90/P99, achieved RPS and a failure breakdown by error
// type. The median is computed from the full retained latency set, not the
// histogram, so it is exact for any outcome count.
package metrics
