package h2client_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/h2pace/h2pace/internal/h2client"
)

// startH2CServer serves the handler over cleartext HTTP/2 on a loopback
// listener and returns its host:port.
func startH2CServer(t *testing.T, handler http.Handler) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: h2c.NewHandler(handler, &http2.Server{})}
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(func() { _ = srv.Close() })
	return lis.Addr().String()
}

func TestClientSpeaksHTTP2(t *testing.T) {
	var mu sync.Mutex
	protoMajor := 0
	addr := startH2CServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		protoMajor = r.ProtoMajor
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))

	client, err := h2client.New(h2client.Options{Target: addr})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if err := client.Do(context.Background()); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if protoMajor != 2 {
		t.Fatalf("expected HTTP/2 request, got HTTP/%d", protoMajor)
	}
}

func TestClientErrorStatusBecomesHTTPError(t *testing.T) {
	addr := startH2CServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))

	client, err := h2client.New(h2client.Options{Target: addr})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	err = client.Do(context.Background())
	var httpErr *h2client.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", httpErr.StatusCode)
	}
}

func TestClientConnectionRefused(t *testing.T) {
	// Grab a port and close it again so nothing is listening.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := lis.Addr().String()
	_ = lis.Close()

	client, err := h2client.New(h2client.Options{Target: addr})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if err := client.Do(context.Background()); err == nil {
		t.Fatalf("expected connection error")
	}
}

func TestClientConcurrentRequests(t *testing.T) {
	var served int64
	var mu sync.Mutex
	addr := startH2CServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		served++
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	client, err := h2client.New(h2client.Options{Target: addr})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	const n = 40
	errs := make(chan error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			errs <- client.Do(context.Background())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent request failed: %v", err)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if served != n {
		t.Fatalf("expected %d served requests, got %d", n, served)
	}
}

func TestClientTimeoutBecomesFailure(t *testing.T) {
	addr := startH2CServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	client, err := h2client.New(h2client.Options{Target: addr, Timeout: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if err := client.Do(context.Background()); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestTargetNormalization(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare host:port", "example.com:8080", "http://example.com:8080/", false},
		{"http url kept", "http://example.com:8080/healthz", "http://example.com:8080/healthz", false},
		{"https url kept", "https://example.com/", "https://example.com/", false},
		{"root path added", "https://example.com", "https://example.com/", false},
		{"empty", "", "", true},
		{"bad scheme", "ftp://example.com", "", true},
		{"no host", "http://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := h2client.New(h2client.Options{Target: tt.in})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := client.Target(); got != tt.want {
				t.Errorf("Target() = %q, want %q", got, tt.want)
			}
		})
	}
}
