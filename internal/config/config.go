package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type ArrivalModel string

const (
	ArrivalModelUniform ArrivalModel = "uniform"
	ArrivalModelPoisson ArrivalModel = "poisson"
)

// Config is the immutable test input assembled from flags and an optional
// config file.
type Config struct {
	Address    string        `mapstructure:"address"`
	Rate       float64       `mapstructure:"rate"`
	Total      int           `mapstructure:"total"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Insecure   bool          `mapstructure:"insecure"`
	Arrival    ArrivalModel  `mapstructure:"arrival"`
	JSONOutput bool          `mapstructure:"json_output"`
	Verbose    bool          `mapstructure:"verbose"`
	LogErrors  bool          `mapstructure:"log_errors"`
	ConfigFile string        `mapstructure:"-"`
	Tracing    TracingConfig `mapstructure:"tracing"`
}

// TracingConfig controls the optional OTLP trace export.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	Insecure    bool    `mapstructure:"insecure"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	ServiceName string  `mapstructure:"service_name"`
	Propagate   bool    `mapstructure:"propagate"`
}

// Enabled reports whether tracing should be initialized at all.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

// ShouldPropagate reports whether W3C trace headers go onto requests.
func (t TracingConfig) ShouldPropagate() bool {
	return t.Enabled() && t.Propagate
}

// Validate rejects configurations the engine must never see. All failures
// here are fatal at startup, before any scheduling begins.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("address is required")
	}
	if err := validateAddress(c.Address); err != nil {
		return err
	}
	if c.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %g", c.Rate)
	}
	if c.Total < 1 {
		return fmt.Errorf("total must be at least 1, got %d", c.Total)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", c.Timeout)
	}
	switch c.Arrival {
	case ArrivalModelUniform, ArrivalModelPoisson:
	default:
		return fmt.Errorf("arrival model must be %q or %q, got %q",
			ArrivalModelUniform, ArrivalModelPoisson, c.Arrival)
	}
	if proto := strings.ToLower(strings.TrimSpace(c.Tracing.Protocol)); proto != "" && proto != "grpc" && proto != "http" {
		return fmt.Errorf("tracing protocol must be \"grpc\" or \"http\", got %q", c.Tracing.Protocol)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing sample rate must be between 0.0 and 1.0, got %g", c.Tracing.SampleRate)
	}
	return nil
}

func validateAddress(raw string) error {
	addr := strings.TrimSpace(raw)
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid address %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid address %q: missing host", raw)
	}
	return nil
}
