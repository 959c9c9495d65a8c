package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/h2pace/h2pace/internal/config"
	"github.com/h2pace/h2pace/internal/h2client"
	"github.com/h2pace/h2pace/internal/metrics"
	"github.com/h2pace/h2pace/internal/output"
	"github.com/h2pace/h2pace/internal/runner"
	"github.com/h2pace/h2pace/internal/tracing"
)

const progressInterval = time.Second

type stderrFailureLogger struct {
	mu sync.Mutex
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tracer, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = tracer.Shutdown(shutdownCtx)
	}()

	client, err := h2client.New(h2client.Options{
		Target:             cfg.Address,
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: cfg.Insecure,
		Tracing:            tracer,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	collector := metrics.NewCollector()

	var requester runner.Requester = client
	if cfg.LogErrors {
		requester = runner.WithLogging(requester, &stderrFailureLogger{})
	}

	r, err := runner.New(runner.Options{
		RatePerSecond: cfg.Rate,
		TotalRequests: cfg.Total,
		Requester:     requester,
		Recorder:      collector,
		ArrivalModel:  toRunnerArrivalModel(cfg.Arrival),
	})
	if err != nil {
		return err
	}

	var progress *output.ProgressReporter
	if !cfg.JSONOutput {
		progress = output.NewProgressReporter(collector, progressInterval, stdout)
		progress.Start()
	}

	collector.Start()
	result := r.Run(ctx)
	if progress != nil {
		progress.Stop()
		fmt.Fprintln(stdout)
	}

	rep := collector.Report(result.Duration)

	switch {
	case cfg.JSONOutput:
		return output.PrintJSONReport(stdout, rep)
	case cfg.Verbose:
		output.PrintReport(stdout, rep)
	default:
		output.PrintSummary(stdout, rep)
	}
	return nil
}

func toRunnerArrivalModel(model config.ArrivalModel) runner.ArrivalModel {
	switch model {
	case config.ArrivalModelPoisson:
		return runner.ArrivalModelPoisson
	default:
		return runner.ArrivalModelUniform
	}
}

func (l *stderrFailureLogger) LogFailure(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(os.Stderr, "[h2pace] request failed: %v\n", err)
}
