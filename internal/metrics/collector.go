package metrics

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector accumulates per-request outcomes and in-flight samples in a
// thread-safe manner. It is the single owner of all shared test state;
// concurrent writers go through RecordRequest/RecordInFlight and never touch
// counters directly.
type Collector struct {
	mu           sync.Mutex
	hist         *hdrhistogram.Histogram
	latencies    []time.Duration
	successes    int64
	failures     int64
	minLatency   time.Duration
	maxLatency   time.Duration
	sumLatency   time.Duration
	errorsByType map[string]int64

	inFlight  int64
	flightSum int64
	flightN   int64
	maxFlight int64

	start time.Time
}

// Report is the aggregated result of a completed load test.
type Report struct {
	Total       int64   `json:"total"`
	Successes   int64   `json:"successes"`
	Failures    int64   `json:"failures"`
	SuccessRate float64 `json:"success_rate"`

	// MedianLatency is the exact median over all outcomes, failed ones
	// included. For an even number of outcomes it is the average of the two
	// middle elements.
	MedianLatency time.Duration `json:"-"`
	MinLatency    time.Duration `json:"-"`
	MaxLatency    time.Duration `json:"-"`
	MeanLatency   time.Duration `json:"-"`
	P90Latency    time.Duration `json:"-"`
	P99Latency    time.Duration `json:"-"`
	Duration      time.Duration `json:"-"`

	AverageInFlight float64 `json:"average_in_flight"`
	MaxInFlight     int64   `json:"max_in_flight"`
	RequestsPerSec  float64 `json:"requests_per_sec"`

	// JSON-friendly millisecond fields.
	MedianLatencyMs float64        `json:"median_latency_ms"`
	MinLatencyMs    float64        `json:"min_latency_ms"`
	MaxLatencyMs    float64        `json:"max_latency_ms"`
	MeanLatencyMs   float64        `json:"mean_latency_ms"`
	P90LatencyMs    float64        `json:"p90_latency_ms"`
	P99LatencyMs    float64        `json:"p99_latency_ms"`
	DurationMs      float64        `json:"duration_ms"`
	Errors          map[string]int `json:"errors,omitempty"`
}

// Snapshot is a cheap live view used by the progress reporter.
type Snapshot struct {
	Total     int64
	Successes int64
	Failures  int64
	InFlight  int64
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	h := hdrhistogram.New(1, 60_000_000, 3)
	return &Collector{
		hist:         h,
		errorsByType: make(map[string]int64),
		start:        time.Now(),
	}
}

// Start marks the actual test start so elapsed-time statistics exclude setup.
func (c *Collector) Start() {
	c.mu.Lock()
	c.start = time.Now()
	c.mu.Unlock()
}

// Elapsed returns the wall-clock time since Start.
func (c *Collector) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Since(c.start)
}

// RecordRequest records a single request's latency and error state. A failed
// request's partial latency is recorded like any other.
func (c *Collector) RecordRequest(latency time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latencies = append(c.latencies, latency)
	c.sumLatency += latency

	if latency > 0 {
		us := latency.Microseconds()
		if us < c.hist.LowestTrackableValue() {
			us = c.hist.LowestTrackableValue()
		}
		if us > c.hist.HighestTrackableValue() {
			us = c.hist.HighestTrackableValue()
		}
		_ = c.hist.RecordValue(us)
	}

	if c.minLatency == 0 || latency < c.minLatency {
		c.minLatency = latency
	}
	if latency > c.maxLatency {
		c.maxLatency = latency
	}

	if err == nil {
		c.successes++
	} else {
		c.failures++
		errorType := fmt.Sprintf("%T", err)
		if len(errorType) > 30 {
			errorType = errorType[len(errorType)-30:]
		}
		c.errorsByType[errorType]++
	}
}

// RecordInFlight records a sample of the current in-flight request count.
// The driver samples on every concurrency transition, so the sample mean
// approximates the area under the concurrency curve.
func (c *Collector) RecordInFlight(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = n
	c.flightSum += n
	c.flightN++
	if n > c.maxFlight {
		c.maxFlight = n
	}
}

// Snapshot returns live counters for progress display.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Total:     c.successes + c.failures,
		Successes: c.successes,
		Failures:  c.failures,
		InFlight:  c.inFlight,
	}
}

// Report computes the final aggregated statistics. It must only be called
// after all dispatched requests have completed; the runner enforces this with
// its drain barrier.
func (c *Collector) Report(elapsed time.Duration) Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.successes + c.failures
	rep := Report{
		Total:       total,
		Successes:   c.successes,
		Failures:    c.failures,
		MinLatency:  c.minLatency,
		MaxLatency:  c.maxLatency,
		MaxInFlight: c.maxFlight,
	}

	if total > 0 {
		rep.SuccessRate = float64(c.successes) / float64(total)
		rep.MeanLatency = time.Duration(int64(c.sumLatency) / total)
	}
	rep.MedianLatency = median(c.latencies)

	if c.hist.TotalCount() > 0 {
		rep.P90Latency = time.Duration(c.hist.ValueAtQuantile(90)) * time.Microsecond
		rep.P99Latency = time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond
	}

	if c.flightN > 0 {
		rep.AverageInFlight = float64(c.flightSum) / float64(c.flightN)
	}

	rep.Duration = elapsed
	if elapsed > 0 && total > 0 {
		rep.RequestsPerSec = float64(total) / elapsed.Seconds()
	}

	rep.MedianLatencyMs = float64(rep.MedianLatency) / float64(time.Millisecond)
	rep.MinLatencyMs = float64(rep.MinLatency) / float64(time.Millisecond)
	rep.MaxLatencyMs = float64(rep.MaxLatency) / float64(time.Millisecond)
	rep.MeanLatencyMs = float64(rep.MeanLatency) / float64(time.Millisecond)
	rep.P90LatencyMs = float64(rep.P90Latency) / float64(time.Millisecond)
	rep.P99LatencyMs = float64(rep.P99Latency) / float64(time.Millisecond)
	rep.DurationMs = float64(elapsed) / float64(time.Millisecond)

	if len(c.errorsByType) > 0 {
		rep.Errors = make(map[string]int, len(c.errorsByType))
		for k, v := range c.errorsByType {
			rep.Errors[k] = int(v)
		}
	}

	return rep
}

// GetErrorBreakdown returns a map of error types to their counts.
func (c *Collector) GetErrorBreakdown() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]int)
	for k, v := range c.errorsByType {
		result[k] = int(v)
	}
	return result
}

// median returns the exact median of the given latencies. The input is not
// modified. For even-length sets the two middle elements are averaged.
func median(latencies []time.Duration) time.Duration {
	n := len(latencies)
	if n == 0 {
		return 0
	}
	sorted := make([]time.Duration, n)
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
