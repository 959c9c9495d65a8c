package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/h2pace/h2pace/internal/metrics"
	"github.com/h2pace/h2pace/internal/output"
)

func sampleReport() metrics.Report {
	return metrics.Report{
		Total:           100,
		Successes:       90,
		Failures:        10,
		SuccessRate:     0.9,
		MedianLatency:   250 * time.Millisecond,
		MinLatency:      10 * time.Millisecond,
		MaxLatency:      900 * time.Millisecond,
		MeanLatency:     300 * time.Millisecond,
		AverageInFlight: 1.2345,
		MaxInFlight:     7,
		Duration:        2 * time.Second,
		RequestsPerSec:  50,
	}
}

func TestPrintSummaryContract(t *testing.T) {
	var buf bytes.Buffer
	output.PrintSummary(&buf, sampleReport())

	want := "success: 90.0%\n" +
		"median response time: 250ms\n" +
		"average in-flight: 1.23\n"
	if buf.String() != want {
		t.Fatalf("summary mismatch:\ngot:  %q\nwant: %q", buf.String(), want)
	}
}

func TestPrintSummarySubMillisecondMedian(t *testing.T) {
	rep := sampleReport()
	rep.MedianLatency = 1500 * time.Microsecond
	var buf bytes.Buffer
	output.PrintSummary(&buf, rep)

	if !strings.Contains(buf.String(), "median response time: 1.5ms\n") {
		t.Fatalf("unexpected median formatting: %q", buf.String())
	}
}

func TestPrintReportIncludesDetail(t *testing.T) {
	rep := sampleReport()
	rep.Errors = map[string]int{"*h2client.HTTPError": 10}
	var buf bytes.Buffer
	output.PrintReport(&buf, rep)

	out := buf.String()
	for _, want := range []string{
		"success: 90.0%",
		"Total Requests:    100",
		"Failed:            10",
		"Max In-Flight:     7",
		"*h2client.HTTPError: 10",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestPrintJSONReportRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := output.PrintJSONReport(&buf, sampleReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["success_rate"] != 0.9 {
		t.Errorf("success_rate = %v, want 0.9", decoded["success_rate"])
	}
	if decoded["total"] != float64(100) {
		t.Errorf("total = %v, want 100", decoded["total"])
	}
}
