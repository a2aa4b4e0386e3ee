package scope

import "math"

// completionPolicy decides at evaluation time whether a guard's action runs.
// Policies are small value types; shouldRun has no side effects and release
// is idempotent and permanent.
type completionPolicy interface {
	shouldRun() bool
	release()
	clone() completionPolicy
}

// alwaysPolicy runs unless released.
type alwaysPolicy struct {
	armed bool
}

func newAlwaysPolicy() *alwaysPolicy {
	return &alwaysPolicy{armed: true}
}

func (p *alwaysPolicy) shouldRun() bool {
	return p.armed
}

func (p *alwaysPolicy) release() {
	p.armed = false
}

func (p *alwaysPolicy) clone() completionPolicy {
	return &alwaysPolicy{armed: p.armed}
}

// onFailurePolicy runs iff a failure is propagating that was not propagating
// when the policy was created. Release pushes the snapshot to the maximum
// representable value so the comparison can never hold again.
type onFailurePolicy struct {
	monitor  *Monitor
	snapshot int64
}

func newOnFailurePolicy(m *Monitor) *onFailurePolicy {
	return &onFailurePolicy{monitor: m, snapshot: m.InFlight()}
}

func (p *onFailurePolicy) shouldRun() bool {
	return p.monitor.InFlight() > p.snapshot
}

func (p *onFailurePolicy) release() {
	p.snapshot = math.MaxInt64
}

func (p *onFailurePolicy) clone() completionPolicy {
	return &onFailurePolicy{monitor: p.monitor, snapshot: p.snapshot}
}

// onSuccessPolicy runs iff the in-flight count at evaluation equals the count
// at creation. Success is relative to the guard's creation point: a guard
// created while a failure was already propagating still runs if that failure
// has been absorbed by evaluation time and the count is back to the snapshot.
// Release sets the snapshot to -1, which no count ever equals.
type onSuccessPolicy struct {
	monitor  *Monitor
	snapshot int64
}

func newOnSuccessPolicy(m *Monitor) *onSuccessPolicy {
	return &onSuccessPolicy{monitor: m, snapshot: m.InFlight()}
}

func (p *onSuccessPolicy) shouldRun() bool {
	return p.monitor.InFlight() == p.snapshot
}

func (p *onSuccessPolicy) release() {
	p.snapshot = -1
}

func (p *onSuccessPolicy) clone() completionPolicy {
	return &onSuccessPolicy{monitor: p.monitor, snapshot: p.snapshot}
}
