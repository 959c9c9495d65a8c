package output_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/h2pace/h2pace/internal/metrics"
	"github.com/h2pace/h2pace/internal/output"
)

// syncBuffer guards a bytes.Buffer against the reporter goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgressReporterEmitsUpdates(t *testing.T) {
	collector := metrics.NewCollector()
	collector.RecordRequest(time.Millisecond, nil)
	collector.RecordInFlight(2)

	buf := &syncBuffer{}
	p := output.NewProgressReporter(collector, 5*time.Millisecond, buf)
	p.Start()
	time.Sleep(30 * time.Millisecond)
	p.Stop()

	out := buf.String()
	if !strings.Contains(out, "Completed: 1") {
		t.Errorf("expected completed count in %q", out)
	}
	if !strings.Contains(out, "In-Flight: 2") {
		t.Errorf("expected in-flight count in %q", out)
	}
}

func TestProgressReporterStopIsIdempotent(t *testing.T) {
	collector := metrics.NewCollector()
	p := output.NewProgressReporter(collector, time.Millisecond, nil)
	p.Start()
	p.Stop()
	p.Stop() // must not panic or block
}

func TestProgressReporterStartTwice(t *testing.T) {
	collector := metrics.NewCollector()
	buf := &syncBuffer{}
	p := output.NewProgressReporter(collector, time.Millisecond, buf)
	p.Start()
	p.Start() // second start is a no-op
	time.Sleep(5 * time.Millisecond)
	p.Stop()
}
