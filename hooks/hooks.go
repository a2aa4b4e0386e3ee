// Package hooks provides extension points for the resource lifecycle.
package hooks

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Event describes one lifecycle occurrence delivered to hooks.
type Event struct {
	// Timestamp is when the event occurred.
	Timestamp time.Time

	// ResourceID identifies the tracked guard or resource.
	ResourceID string

	// Kind is the caller-supplied resource kind label.
	Kind string

	// Err is the deleter error for finalize events, if any.
	Err error

	// Duration is how long the finalizer ran, for after-finalize events.
	Duration time.Duration
}

// Hook defines extension points for the resource lifecycle.
type Hook interface {
	// Name returns a unique identifier for the hook.
	Name() string

	// Priority determines execution order (lower = earlier).
	Priority() int
}

// BeforeFinalizeHook is called just before a deleter is invoked.
type BeforeFinalizeHook interface {
	Hook
	BeforeFinalize(ctx context.Context, ev *Event)
}

// AfterFinalizeHook is called after a deleter has returned.
type AfterFinalizeHook interface {
	Hook
	AfterFinalize(ctx context.Context, ev *Event)
}

// ReleaseHook is called when ownership is released without finalization.
type ReleaseHook interface {
	Hook
	OnRelease(ctx context.Context, ev *Event)
}

// PanicHook is called when a deleter panics. The panic is re-raised after
// all panic hooks have run; hooks must not assume the process continues.
type PanicHook interface {
	Hook
	OnPanic(ctx context.Context, ev *Event, recovered any)
}

// LeakHook is called when a tracked resource is collected while still armed.
type LeakHook interface {
	Hook
	OnLeak(ctx context.Context, ev *Event)
}

// Registry manages hook registration and invocation.
type Registry struct {
	beforeFinalize []BeforeFinalizeHook
	afterFinalize  []AfterFinalizeHook
	release        []ReleaseHook
	panics         []PanicHook
	leaks          []LeakHook
	mu             sync.RWMutex
}

// NewRegistry creates a new hook registry.
func NewRegistry() *Registry {
	return &Registry{
		beforeFinalize: make([]BeforeFinalizeHook, 0),
		afterFinalize:  make([]AfterFinalizeHook, 0),
		release:        make([]ReleaseHook, 0),
		panics:         make([]PanicHook, 0),
		leaks:          make([]LeakHook, 0),
	}
}

// Register adds a hook to the registry. A hook may implement several of the
// lifecycle interfaces and is registered for each it satisfies.
func (r *Registry) Register(hook Hook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := hook.(BeforeFinalizeHook); ok {
		r.beforeFinalize = sortedInsert(r.beforeFinalize, h)
	}
	if h, ok := hook.(AfterFinalizeHook); ok {
		r.afterFinalize = sortedInsert(r.afterFinalize, h)
	}
	if h, ok := hook.(ReleaseHook); ok {
		r.release = sortedInsert(r.release, h)
	}
	if h, ok := hook.(PanicHook); ok {
		r.panics = sortedInsert(r.panics, h)
	}
	if h, ok := hook.(LeakHook); ok {
		r.leaks = sortedInsert(r.leaks, h)
	}

	return nil
}

// Unregister removes a hook by name from every lifecycle it was registered
// for.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.beforeFinalize = removeByName(r.beforeFinalize, name)
	r.afterFinalize = removeByName(r.afterFinalize, name)
	r.release = removeByName(r.release, name)
	r.panics = removeByName(r.panics, name)
	r.leaks = removeByName(r.leaks, name)
}

// RunBeforeFinalize runs all before-finalize hooks in priority order.
func (r *Registry) RunBeforeFinalize(ctx context.Context, ev *Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, hook := range r.beforeFinalize {
		hook.BeforeFinalize(ctx, ev)
	}
}

// RunAfterFinalize runs all after-finalize hooks in priority order.
func (r *Registry) RunAfterFinalize(ctx context.Context, ev *Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, hook := range r.afterFinalize {
		hook.AfterFinalize(ctx, ev)
	}
}

// RunOnRelease runs all release hooks in priority order.
func (r *Registry) RunOnRelease(ctx context.Context, ev *Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, hook := range r.release {
		hook.OnRelease(ctx, ev)
	}
}

// RunOnPanic runs all panic hooks in priority order.
func (r *Registry) RunOnPanic(ctx context.Context, ev *Event, recovered any) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, hook := range r.panics {
		hook.OnPanic(ctx, ev, recovered)
	}
}

// RunOnLeak runs all leak hooks in priority order.
func (r *Registry) RunOnLeak(ctx context.Context, ev *Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, hook := range r.leaks {
		hook.OnLeak(ctx, ev)
	}
}

func sortedInsert[H Hook](hooks []H, h H) []H {
	hooks = append(hooks, h)
	sort.SliceStable(hooks, func(i, j int) bool {
		return hooks[i].Priority() < hooks[j].Priority()
	})
	return hooks
}

func removeByName[H Hook](hooks []H, name string) []H {
	result := make([]H, 0, len(hooks))
	for _, h := range hooks {
		if h.Name() != name {
			result = append(result, h)
		}
	}
	return result
}

// LoggingHook is a built-in hook that logs lifecycle events.
type LoggingHook struct {
	logger func(format string, args ...interface{})
}

// NewLoggingHook creates a new logging hook.
func NewLoggingHook(logger func(format string, args ...interface{})) *LoggingHook {
	return &LoggingHook{logger: logger}
}

func (h *LoggingHook) Name() string  { return "logging" }
func (h *LoggingHook) Priority() int { return 1000 }

// BeforeFinalize implements BeforeFinalizeHook.
func (h *LoggingHook) BeforeFinalize(ctx context.Context, ev *Event) {
	h.logger("Finalizing: kind=%s id=%s", ev.Kind, ev.ResourceID)
}

// AfterFinalize implements AfterFinalizeHook.
func (h *LoggingHook) AfterFinalize(ctx context.Context, ev *Event) {
	if ev.Err != nil {
		h.logger("Finalization failed: kind=%s id=%s - %v", ev.Kind, ev.ResourceID, ev.Err)
	} else {
		h.logger("Finalization completed: kind=%s id=%s duration=%v", ev.Kind, ev.ResourceID, ev.Duration)
	}
}

// OnLeak implements LeakHook.
func (h *LoggingHook) OnLeak(ctx context.Context, ev *Event) {
	h.logger("Leak detected: kind=%s id=%s collected while still armed", ev.Kind, ev.ResourceID)
}
