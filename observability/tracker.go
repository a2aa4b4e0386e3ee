package observability

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/victoralfred/goscope/hooks"
	"github.com/victoralfred/goscope/resource"
)

// TrackerConfig configures the lifetime tracker.
type TrackerConfig struct {
	// EnableLeakDetection registers a GC finalizer on tracked resources
	// that reports any resource collected while still armed.
	EnableLeakDetection bool `yaml:"enable_leak_detection"`

	// EnableMetrics enables in-memory metrics collection.
	EnableMetrics bool `yaml:"enable_metrics"`

	// EnableTracing enables OpenTelemetry span and counter emission.
	EnableTracing bool `yaml:"enable_tracing"`

	// EnableAudit enables audit trail emission.
	EnableAudit bool `yaml:"enable_audit"`
}

// DefaultTrackerConfig returns default tracker configuration.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		EnableLeakDetection: true,
		EnableMetrics:       true,
		EnableTracing:       true,
		EnableAudit:         true,
	}
}

// Tracker observes the lifetime of guards and resources: it instruments
// deleters, assigns IDs, drives hooks, metrics, telemetry and the audit
// trail, and optionally reports resources that are garbage-collected while
// still armed.
type Tracker struct {
	config    TrackerConfig
	metrics   *Metrics
	telemetry Telemetry
	audit     AuditLogger
	hooks     *hooks.Registry
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithMetrics sets the in-memory metrics collector.
func WithMetrics(m *Metrics) TrackerOption {
	return func(t *Tracker) { t.metrics = m }
}

// WithTelemetry sets the OpenTelemetry sink.
func WithTelemetry(tel Telemetry) TrackerOption {
	return func(t *Tracker) { t.telemetry = tel }
}

// WithAudit sets the audit logger.
func WithAudit(a AuditLogger) TrackerOption {
	return func(t *Tracker) { t.audit = a }
}

// WithHooks sets the lifecycle hook registry.
func WithHooks(r *hooks.Registry) TrackerOption {
	return func(t *Tracker) { t.hooks = r }
}

// NewTracker creates a tracker. Collaborators not supplied via options
// default to a fresh metrics collector, no-op telemetry, an in-memory audit
// logger and an empty hook registry.
func NewTracker(config TrackerConfig, opts ...TrackerOption) *Tracker {
	t := &Tracker{config: config}
	for _, opt := range opts {
		opt(t)
	}

	if t.metrics == nil {
		t.metrics = NewMetrics()
	}
	if t.telemetry == nil {
		t.telemetry = NopTelemetry()
	}
	if t.audit == nil {
		t.audit = NewMemoryAuditLogger()
	}
	if t.hooks == nil {
		t.hooks = hooks.NewRegistry()
	}

	return t
}

// Metrics returns the tracker's metrics collector.
func (t *Tracker) Metrics() *Metrics {
	return t.metrics
}

// Audit returns the tracker's audit logger.
func (t *Tracker) Audit() AuditLogger {
	return t.audit
}

// Hooks returns the tracker's hook registry.
func (t *Tracker) Hooks() *hooks.Registry {
	return t.hooks
}

// Close flushes and closes the audit sink.
func (t *Tracker) Close() error {
	return t.audit.Close()
}

// Tracked couples a Unique with the tracker that observes it. Release goes
// through the wrapper so the release is visible to hooks and the audit
// trail; everything else is the embedded Unique.
type Tracked[R any] struct {
	*resource.Unique[R]
	tracker *Tracker
	kind    string
	id      string
	live    *atomic.Bool
}

// ID returns the tracker-assigned identifier.
func (tr *Tracked[R]) ID() string {
	return tr.id
}

// Release disarms without finalizing, records the release, and returns the
// resource value.
func (tr *Tracked[R]) Release() R {
	v := tr.Unique.Release()
	tr.tracker.recordRelease(context.Background(), tr.kind, tr.id)
	tr.tracker.settle(tr.live)
	return v
}

// Track builds an armed Unique whose deleter is instrumented by t, and
// registers leak detection for it when enabled. kind labels the resource in
// metrics and audit events.
//
// The live-resource gauge counts tracked wrappers, not deleter invocations:
// it goes up once here and comes back down once at the wrapper's first
// terminal event (finalization, release or leak), however many times the
// deleter itself runs over the wrapper's lifetime.
func Track[R any](t *Tracker, kind string, r R, d resource.Deleter[R]) *Tracked[R] {
	id := uuid.NewString()
	live := new(atomic.Bool)
	live.Store(true)
	instrumented := Instrument(t, kind, id, d)
	tr := &Tracked[R]{
		Unique: resource.New(r, func(v R) error {
			defer t.settle(live)
			return instrumented(v)
		}),
		tracker: t,
		kind:    kind,
		id:      id,
		live:    live,
	}
	t.addLive(1)

	if t.config.EnableLeakDetection {
		runtime.SetFinalizer(tr, func(leaked *Tracked[R]) {
			if leaked.Unique.IsArmed() {
				t.recordLeak(context.Background(), kind, id)
				t.settle(live)
			}
		})
	}

	return tr
}

// Instrument wraps a deleter so every invocation is observed: hooks fire
// around it, the duration is measured, and the outcome lands in metrics,
// telemetry and the audit trail. A panic in the deleter is recorded and then
// re-raised; the tracker never absorbs it.
func Instrument[R any](t *Tracker, kind, id string, d resource.Deleter[R]) resource.Deleter[R] {
	return func(r R) error {
		ctx := context.Background()
		ev := &hooks.Event{Timestamp: time.Now(), ResourceID: id, Kind: kind}
		t.hooks.RunBeforeFinalize(ctx, ev)

		ctx, end := t.telemetry.StartSpan(ctx, "goscope.finalize",
			WithAttribute("kind", kind),
			WithAttribute("resource_id", id),
		)
		defer end()

		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				t.recordPanic(ctx, kind, id, rec)
				panic(rec)
			}
		}()

		err := d(r)
		t.recordFinalization(ctx, kind, id, time.Since(start), err)
		return err
	}
}

// addLive adjusts the live-resource gauge on every sink enabled for it.
// Increments and decrements go through here so the gauge cannot drift when a
// sink is disabled.
func (t *Tracker) addLive(delta int64) {
	if t.config.EnableMetrics {
		t.metrics.AddLive(delta)
	}
	if t.config.EnableTracing {
		t.telemetry.AddLive(delta)
	}
}

// settle decrements the live-resource gauge for a tracked wrapper. The flag
// makes it first-terminal-event-wins: finalization, release and leak all
// settle, and only the first of them counts.
func (t *Tracker) settle(live *atomic.Bool) {
	if live.CompareAndSwap(true, false) {
		t.addLive(-1)
	}
}

func (t *Tracker) recordFinalization(ctx context.Context, kind, id string, duration time.Duration, err error) {
	if t.config.EnableMetrics {
		t.metrics.RecordFinalization(kind, duration, err)
	}
	if t.config.EnableTracing {
		t.telemetry.RecordFinalization(kind, duration.Seconds(), err != nil)
	}
	if t.config.EnableAudit {
		_ = t.audit.Log(ctx, NewAuditEvent(AuditEventFinalize, kind, id, duration, err))
	}

	ev := &hooks.Event{Timestamp: time.Now(), ResourceID: id, Kind: kind, Err: err, Duration: duration}
	t.hooks.RunAfterFinalize(ctx, ev)
}

func (t *Tracker) recordRelease(ctx context.Context, kind, id string) {
	if t.config.EnableMetrics {
		t.metrics.RecordRelease(kind)
	}
	if t.config.EnableTracing {
		t.telemetry.RecordRelease(kind)
	}
	if t.config.EnableAudit {
		_ = t.audit.Log(ctx, NewAuditEvent(AuditEventRelease, kind, id, 0, nil))
	}

	ev := &hooks.Event{Timestamp: time.Now(), ResourceID: id, Kind: kind}
	t.hooks.RunOnRelease(ctx, ev)
}

func (t *Tracker) recordLeak(ctx context.Context, kind, id string) {
	if t.config.EnableMetrics {
		t.metrics.RecordLeak(kind)
	}
	if t.config.EnableTracing {
		t.telemetry.RecordLeak(kind)
	}
	if t.config.EnableAudit {
		_ = t.audit.Log(ctx, NewAuditEvent(AuditEventLeak, kind, id, 0, nil))
	}

	ev := &hooks.Event{Timestamp: time.Now(), ResourceID: id, Kind: kind}
	t.hooks.RunOnLeak(ctx, ev)
}

func (t *Tracker) recordPanic(ctx context.Context, kind, id string, recovered any) {
	if t.config.EnableMetrics {
		t.metrics.RecordPanic(kind)
	}
	if t.config.EnableTracing {
		t.telemetry.RecordPanic(kind)
	}
	if t.config.EnableAudit {
		_ = t.audit.Log(ctx, NewAuditEvent(AuditEventPanic, kind, id, 0, nil))
	}

	ev := &hooks.Event{Timestamp: time.Now(), ResourceID: id, Kind: kind}
	t.hooks.RunOnPanic(ctx, ev, recovered)
}
