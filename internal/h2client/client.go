package h2client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/http2"

	"github.com/h2pace/h2pace/internal/tracing"
)

// HTTPError represents a response with an error status code. The request
// itself completed, so it still carries a latency sample.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Options configure the shared connection client.
type Options struct {
	// Target is the server address: host:port or a full http(s) URL.
	// A bare host:port speaks cleartext prior-knowledge HTTP/2.
	Target string
	// Timeout bounds each request; 0 means no deadline.
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool
	// Tracing optionally emits one client span per request.
	Tracing *tracing.Provider
}

// Client issues GET requests against one target over a shared HTTP/2
// connection. Every call rides an independent stream on that connection, so
// Do is safe for any number of concurrent callers.
type Client struct {
	http      *http.Client
	transport *http2.Transport
	target    string
	tracing   *tracing.Provider
}

func New(opt Options) (*Client, error) {
	target, err := normalizeTarget(opt.Target)
	if err != nil {
		return nil, err
	}

	transport := &http2.Transport{
		ReadIdleTimeout: 30 * time.Second,
		PingTimeout:     15 * time.Second,
	}
	if strings.HasPrefix(target, "http://") {
		// Prior-knowledge h2c: dial plain TCP where the transport would
		// normally start a TLS handshake.
		transport.AllowHTTP = true
		transport.DialTLSContext = func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		}
	} else if opt.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	timeout := opt.Timeout
	if timeout < 0 {
		timeout = 0
	}

	return &Client{
		http:      &http.Client{Timeout: timeout, Transport: transport},
		transport: transport,
		target:    target,
		tracing:   opt.Tracing,
	}, nil
}

// Target returns the normalized target URL.
func (c *Client) Target() string { return c.target }

// Do issues one GET request and reports its outcome. All failure modes
// (dial, protocol, timeout, error status) come back as an ordinary error so
// the caller can record them; nothing here is fatal.
func (c *Client) Do(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var span trace.Span
	if c.tracing != nil {
		ctx, span = tracing.StartRequestSpan(ctx, c.tracing.Tracer(), c.target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.target, nil)
	if err != nil {
		c.endSpan(span, err, 0)
		return err
	}
	if c.tracing != nil && c.tracing.ShouldPropagate() {
		tracing.InjectHTTPHeaders(ctx, req.Header)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.endSpan(span, err, 0)
		return err
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	var resultErr error
	if resp.StatusCode >= 400 {
		resultErr = &HTTPError{StatusCode: resp.StatusCode}
	}
	c.endSpan(span, resultErr, resp.StatusCode)
	return resultErr
}

// Close releases the multiplexed connection.
func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}

func (c *Client) endSpan(span trace.Span, err error, status int) {
	if span == nil {
		return
	}
	if status > 0 {
		tracing.EndSpan(span, err, attribute.Int("http.response.status_code", status))
		return
	}
	tracing.EndSpan(span, err)
}

func normalizeTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("target address is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid target address: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return "", fmt.Errorf("unsupported scheme %q (use http, https or host:port)", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("target %q has no host", raw)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}
