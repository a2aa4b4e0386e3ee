package goscope

import (
	"github.com/victoralfred/goscope/config"
	"github.com/victoralfred/goscope/observability"
	"github.com/victoralfred/goscope/resource"
	"github.com/victoralfred/goscope/scope"
)

// =============================================================================
// Core Types
// =============================================================================

// Guard couples a deferred action with a completion policy.
// Use OnExit, OnSuccess or OnFailure to create guards.
type Guard = scope.Guard

// Monitor counts failures currently propagating. The conditional guard
// policies compare its value at evaluation against a snapshot taken at
// guard creation.
type Monitor = scope.Monitor

// Tracker observes guard and resource lifetimes for metrics, hooks and the
// audit trail.
type Tracker = observability.Tracker

// Config is the library configuration.
type Config = config.Config

// =============================================================================
// Error Variables
// =============================================================================

// Common errors returned by the library.
var (
	// ErrNilAcquire indicates Acquire was called without an acquire function.
	ErrNilAcquire = resource.ErrNilAcquire

	// ErrNilDeleter indicates a constructor was called without a deleter.
	ErrNilDeleter = resource.ErrNilDeleter

	// ErrAuditThrottled indicates an audit event was dropped by the write
	// throttle.
	ErrAuditThrottled = observability.ErrAuditThrottled
)

// =============================================================================
// Guard Construction
// =============================================================================

// OnExit creates a guard whose action runs unconditionally at Run unless
// released first.
//
// Example:
//
//	g := goscope.OnExit(func() { conn.Close() })
//	defer g.Run()
func OnExit(fn func()) *Guard {
	return scope.OnExit(fn)
}

// OnSuccess creates a guard on the default monitor whose action runs only
// if no new failure began propagating since creation. Use scope.OnSuccess
// directly to supply a dedicated monitor.
func OnSuccess(fn func()) *Guard {
	return scope.OnSuccess(nil, fn)
}

// OnFailure creates a guard on the default monitor whose action runs only
// if a new failure is propagating that was not at creation. Use
// scope.OnFailure directly to supply a dedicated monitor.
func OnFailure(fn func()) *Guard {
	return scope.OnFailure(nil, fn)
}

// NewMonitor creates a failure monitor with no failures in flight.
func NewMonitor() *Monitor {
	return scope.NewMonitor()
}

// DefaultMonitor returns the shared package-level monitor.
func DefaultMonitor() *Monitor {
	return scope.Default()
}

// =============================================================================
// Resource Construction
// =============================================================================

// New creates an armed resource wrapper owning r; d fires exactly once on
// the next disarm event.
//
// Example:
//
//	u := goscope.New(conn, func(c net.Conn) error { return c.Close() })
//	defer u.Close()
func New[R any](r R, d resource.Deleter[R]) *resource.Unique[R] {
	return resource.New(r, d)
}

// NewChecked creates a resource wrapper owning r, armed only if r differs
// from the invalid sentinel.
func NewChecked[R comparable](r R, invalid R, d resource.Deleter[R]) *resource.Unique[R] {
	return resource.NewChecked(r, invalid, d)
}

// Acquire runs a fallible acquisition and wraps its result; on a failure
// after a successful acquire, the acquired value is finalized before the
// error returns.
func Acquire[R any](acquire func() (R, error), d resource.Deleter[R]) (*resource.Unique[R], error) {
	return resource.Acquire(acquire, d)
}

// =============================================================================
// Configuration
// =============================================================================

// LoadConfig loads configuration from a YAML file under basePath.
//
// Example:
//
//	cfg, err := goscope.LoadConfig("/etc/goscope", "config.yaml")
func LoadConfig(basePath, configFile string) (*Config, error) {
	loader, err := config.NewLoader(basePath, configFile)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}

// NewTracker creates a lifetime tracker from the configuration.
func NewTracker(cfg Config, opts ...observability.TrackerOption) *Tracker {
	return observability.NewTracker(cfg.Tracker, opts...)
}

// Version returns the library version.
func Version() string {
	return "1.0.0"
}

// =============================================================================
// Package Accessors
// =============================================================================

// These functions provide access to subpackage functionality.
// For advanced use cases, import the subpackages directly:
//
//   - github.com/victoralfred/goscope/scope         - Guards, policies, failure monitor
//   - github.com/victoralfred/goscope/resource      - Unique-ownership wrapper and factories
//   - github.com/victoralfred/goscope/observability - Metrics, tracing & audit trail
//   - github.com/victoralfred/goscope/hooks         - Extension points
//   - github.com/victoralfred/goscope/config        - Configuration
