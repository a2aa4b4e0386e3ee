package scope

// Guard owns a single deferred action and the policy that gates it. Run the
// action at scope end with defer:
//
//	g := scope.OnExit(cleanup)
//	defer g.Run()
//
// A guard fires at most once over its whole lifetime, no matter how many
// times Run is called or how the ambient failure count changes afterwards.
// Guards have single ownership: they are created and passed as pointers, and
// the only sanctioned way to hand the pending action to another owner is
// Move, which disarms the source before the new guard becomes usable.
// There is no assignment-style transfer; two guards must never both hold
// decision authority over one pending action.
type Guard struct {
	noCopy noCopy
	action func()
	policy completionPolicy
	done   bool
}

// noCopy triggers the go vet copylocks check on Guard value copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// OnExit creates a guard whose action runs unconditionally at Run, unless
// Release was called first. Panics if fn is nil.
func OnExit(fn func()) *Guard {
	if fn == nil {
		panic("goscope: nil guard action")
	}
	return &Guard{action: fn, policy: newAlwaysPolicy()}
}

// OnSuccess creates a guard whose action runs at Run iff no new failure has
// begun propagating on m since creation. A nil m means the default monitor.
// Panics if fn is nil.
func OnSuccess(m *Monitor, fn func()) *Guard {
	if fn == nil {
		panic("goscope: nil guard action")
	}
	if m == nil {
		m = Default()
	}
	return &Guard{action: fn, policy: newOnSuccessPolicy(m)}
}

// OnFailure creates a guard whose action runs at Run iff a failure is
// propagating on m that was not propagating at creation. A nil m means the
// default monitor. Panics if fn is nil.
func OnFailure(m *Monitor, fn func()) *Guard {
	if fn == nil {
		panic("goscope: nil guard action")
	}
	if m == nil {
		m = Default()
	}
	return &Guard{action: fn, policy: newOnFailurePolicy(m)}
}

// Run evaluates the policy and invokes the action if it says to. The guard is
// spent afterwards either way; a second Run is a no-op. The guard is marked
// spent before the action executes, so an action that panics cannot fire
// twice. The panic itself propagates to the caller unrecovered.
func (g *Guard) Run() {
	if g.done {
		return
	}
	run := g.policy.shouldRun()
	g.done = true
	g.policy.release()
	if run {
		g.action()
	}
}

// Release permanently disarms the guard. The action will never run.
// Idempotent.
func (g *Guard) Release() {
	g.policy.release()
}

// ShouldRun reports whether the action would run if Run were called now.
func (g *Guard) ShouldRun() bool {
	return !g.done && g.policy.shouldRun()
}

// Move transfers the pending action to a fresh guard. The new guard inherits
// the policy state the source had at the moment of transfer; the source is
// disarmed as part of the transfer, so across both guards the action can
// still fire at most once.
func (g *Guard) Move() *Guard {
	moved := &Guard{action: g.action, policy: g.policy.clone(), done: g.done}
	g.done = true
	g.policy.release()
	return moved
}
