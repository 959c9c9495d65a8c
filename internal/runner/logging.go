package runner

import "context"

// FailureLogger logs failed requests.
type FailureLogger interface {
	LogFailure(err error)
}

type loggingRequester struct {
	inner  Requester
	logger FailureLogger
}

// WithLogging wraps a Requester so every failure is reported to the logger
// before being recorded as an outcome.
func WithLogging(req Requester, logger FailureLogger) Requester {
	if logger == nil {
		return req
	}
	return &loggingRequester{inner: req, logger: logger}
}

func (l *loggingRequester) Do(ctx context.Context) error {
	err := l.inner.Do(ctx)
	if err != nil {
		l.logger.LogFailure(err)
	}
	return err
}
