package runner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/h2pace/h2pace/internal/runner"
)

type errRequester struct{ err error }

func (e *errRequester) Do(context.Context) error { return e.err }

type captureLogger struct{ logged []error }

func (c *captureLogger) LogFailure(err error) { c.logged = append(c.logged, err) }

func TestWithLoggingReportsFailures(t *testing.T) {
	boom := errors.New("boom")
	logger := &captureLogger{}
	req := runner.WithLogging(&errRequester{err: boom}, logger)

	if err := req.Do(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error to pass through, got %v", err)
	}
	if len(logger.logged) != 1 || !errors.Is(logger.logged[0], boom) {
		t.Fatalf("expected one logged failure, got %v", logger.logged)
	}
}

func TestWithLoggingIgnoresSuccess(t *testing.T) {
	logger := &captureLogger{}
	req := runner.WithLogging(&errRequester{}, logger)

	if err := req.Do(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logger.logged) != 0 {
		t.Fatalf("success must not be logged, got %v", logger.logged)
	}
}

func TestWithLoggingNilLoggerPassthrough(t *testing.T) {
	inner := &errRequester{}
	if got := runner.WithLogging(inner, nil); got != runner.Requester(inner) {
		t.Fatalf("nil logger should return the inner requester unchanged")
	}
}
