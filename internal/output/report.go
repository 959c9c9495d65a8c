package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/h2pace/h2pace/internal/metrics"
)

// PrintSummary writes the three-line result contract.
func PrintSummary(w io.Writer, rep metrics.Report) {
	fmt.Fprintf(w, "success: %.1f%%\n", rep.SuccessRate*100)
	fmt.Fprintf(w, "median response time: %s\n", rep.MedianLatency)
	fmt.Fprintf(w, "average in-flight: %.2f\n", rep.AverageInFlight)
}

// PrintReport writes the summary followed by the full statistics breakdown.
func PrintReport(w io.Writer, rep metrics.Report) {
	PrintSummary(w, rep)

	fmt.Fprintln(w, "\n--- Detail ---")
	fmt.Fprintf(w, "Total Requests:    %d\n", rep.Total)
	fmt.Fprintf(w, "Successful:        %d\n", rep.Successes)
	fmt.Fprintf(w, "Failed:            %d\n", rep.Failures)
	fmt.Fprintf(w, "Duration:          %s\n", rep.Duration)
	fmt.Fprintf(w, "Requests/sec:      %.2f\n", rep.RequestsPerSec)
	fmt.Fprintf(w, "Max In-Flight:     %d\n", rep.MaxInFlight)
	fmt.Fprintln(w, "\nLatency:")
	fmt.Fprintf(w, "  Min:             %s\n", rep.MinLatency)
	fmt.Fprintf(w, "  Max:             %s\n", rep.MaxLatency)
	fmt.Fprintf(w, "  Mean:            %s\n", rep.MeanLatency)
	fmt.Fprintf(w, "  P90:             %s\n", rep.P90Latency)
	fmt.Fprintf(w, "  P99:             %s\n", rep.P99Latency)

	if len(rep.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		types := make([]string, 0, len(rep.Errors))
		for name := range rep.Errors {
			types = append(types, name)
		}
		sort.Strings(types)
		for _, name := range types {
			fmt.Fprintf(w, "  %s: %d\n", name, rep.Errors[name])
		}
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, rep metrics.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
