package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Address: "localhost:8080",
		Rate:    1,
		Total:   1,
		Arrival: ArrivalModelUniform,
	}
}

func TestValidateAcceptsMinimalConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"empty address", func(c *Config) { c.Address = "" }, "address is required"},
		{"bad scheme", func(c *Config) { c.Address = "ftp://host" }, "unsupported scheme"},
		{"no host", func(c *Config) { c.Address = "http://" }, "missing host"},
		{"zero rate", func(c *Config) { c.Rate = 0 }, "rate must be positive"},
		{"negative rate", func(c *Config) { c.Rate = -2 }, "rate must be positive"},
		{"zero total", func(c *Config) { c.Total = 0 }, "total must be at least 1"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout cannot be negative"},
		{"bad arrival", func(c *Config) { c.Arrival = "burst" }, "arrival model"},
		{"bad tracing protocol", func(c *Config) { c.Tracing.Protocol = "udp" }, "tracing protocol"},
		{"bad sample rate", func(c *Config) { c.Tracing.SampleRate = 1.5 }, "sample rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestValidRates(t *testing.T) {
	for _, rate := range []float64{0.5, 1, 3, 1000} {
		cfg := validConfig()
		cfg.Rate = rate
		if err := cfg.Validate(); err != nil {
			t.Errorf("rate %g should be valid: %v", rate, err)
		}
	}
}

func TestTracingEnabled(t *testing.T) {
	var tc TracingConfig
	if tc.Enabled() {
		t.Errorf("empty endpoint must disable tracing")
	}
	tc.Endpoint = "localhost:4317"
	if !tc.Enabled() {
		t.Errorf("endpoint must enable tracing")
	}
	if tc.ShouldPropagate() {
		t.Errorf("propagation must be opt-in")
	}
	tc.Propagate = true
	if !tc.ShouldPropagate() {
		t.Errorf("expected propagation enabled")
	}
}
