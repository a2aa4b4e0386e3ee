// Package scope provides deferred-action guards with completion policies.
//
// A Guard couples a zero-argument action with a policy that decides, at the
// guard's evaluation point, whether the action should run. Three policies are
// available: run always (OnExit), run only when no new failure began since
// the guard was created (OnSuccess), and run only when one did (OnFailure).
//
// Go exposes no ambient count of in-flight failures, so the conditional
// policies read an explicit Monitor that the protected code drives. The usual
// pattern registers the guard first and the monitor's Observe last, so that
// Observe runs first during teardown:
//
//	func write(m *scope.Monitor, path string) (err error) {
//	    g := scope.OnFailure(m, func() { os.Remove(path) })
//	    defer g.Run()
//	    defer m.Observe(&err)
//	    ...
//	}
package scope

import "sync/atomic"

// Monitor counts failures that are currently propagating but not yet fully
// handled. It is the explicit stand-in for the runtime's unwinding state:
// conditional guards snapshot the count at creation and compare it against
// the count at evaluation.
//
// BeginFailure and EndFailure must be called in pairs. Observe and Resolve
// are the error-return-friendly wrappers most callers want.
type Monitor struct {
	inFlight atomic.Int64
}

// defaultMonitor backs the package-level conditional guards.
var defaultMonitor = NewMonitor()

// NewMonitor creates a monitor with no failures in flight.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Default returns the shared package-level monitor. Guards constructed with
// a nil monitor use it.
func Default() *Monitor {
	return defaultMonitor
}

// BeginFailure records that a failure has begun propagating.
func (m *Monitor) BeginFailure() {
	m.inFlight.Add(1)
}

// EndFailure records that a propagating failure has been fully handled.
// Calls must pair with BeginFailure.
func (m *Monitor) EndFailure() {
	m.inFlight.Add(-1)
}

// InFlight returns the number of failures currently propagating.
func (m *Monitor) InFlight() int64 {
	return m.inFlight.Load()
}

// Observe marks a failure as propagating when *errp is non-nil. It is meant
// to be deferred after the guards it should influence, with a pointer to the
// function's named error return:
//
//	defer m.Observe(&err)
//
// The failure stays in flight until a handler calls Resolve, mirroring a
// failure that keeps unwinding until something absorbs it.
//
// Observe inspects only *errp; it does not detect an in-flight panic. Code
// whose failure path is a panic calls BeginFailure and EndFailure directly.
func (m *Monitor) Observe(errp *error) {
	if errp != nil && *errp != nil {
		m.BeginFailure()
	}
}

// Resolve marks one propagating failure as absorbed. Callers that handled an
// error observed by Observe use it to bring the monitor back to rest.
func (m *Monitor) Resolve() {
	m.EndFailure()
}

// Failing reports whether any failure is currently in flight.
func (m *Monitor) Failing() bool {
	return m.InFlight() > 0
}
