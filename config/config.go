// Package config provides configuration management for goscope.
package config

import (
	"github.com/victoralfred/goscope/observability"
)

// Config is the main configuration for goscope.
type Config struct {
	Telemetry observability.TelemetryConfig `yaml:"telemetry"`
	Audit     observability.AuditConfig     `yaml:"audit"`
	Tracker   observability.TrackerConfig   `yaml:"tracker"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Telemetry: observability.DefaultTelemetryConfig(),
		Audit:     observability.DefaultAuditConfig(),
		Tracker:   observability.DefaultTrackerConfig(),
	}
}

// DevelopmentConfig returns configuration suitable for development:
// everything on, generous audit throttle, audit trail in the working tree.
func DevelopmentConfig() Config {
	cfg := DefaultConfig()
	cfg.Telemetry.Environment = "development"
	cfg.Audit.BasePath = "."
	cfg.Audit.FilePath = "goscope-audit.log"
	cfg.Audit.MaxPerSecond = 5000
	cfg.Audit.Burst = 10000
	return cfg
}

// ProductionConfig returns configuration suitable for production: leak
// detection stays on, audit records failures only.
func ProductionConfig() Config {
	cfg := DefaultConfig()
	cfg.Telemetry.Environment = "production"
	cfg.Audit.LogLevel = observability.AuditLogFailures
	cfg.Audit.MaxPerSecond = 100
	cfg.Audit.Burst = 200
	return cfg
}

// Validate validates the configuration, repairing out-of-range values.
func (c *Config) Validate() error {
	if c.Telemetry.MetricsPrefix == "" {
		c.Telemetry.MetricsPrefix = "goscope_"
	}

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "goscope"
	}

	if c.Audit.MaxPerSecond <= 0 {
		c.Audit.MaxPerSecond = 500
	}

	if c.Audit.Burst <= 0 {
		c.Audit.Burst = int(c.Audit.MaxPerSecond) * 2
	}

	if c.Audit.LogLevel == "" {
		c.Audit.LogLevel = observability.AuditLogAll
	}

	return nil
}
