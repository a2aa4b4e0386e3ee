package resource

import (
	"github.com/victoralfred/goscope/internal/storage"
	"github.com/victoralfred/goscope/scope"
)

// Unique owns a resource value and the deleter that releases it.
//
// The wrapper is a two-state machine: armed (the deleter fires on the next
// disarm event) and disarmed. Every operation that disarms does so before
// invoking the deleter, so the deleter can never be entered twice for one
// arming, not even when it panics mid-flight.
//
// A Unique is exclusively owned by one slot at a time. It is not safe for
// concurrent use; transfer between owners goes through Move.
type Unique[R any] struct {
	value   storage.Box[R]
	deleter storage.Box[Deleter[R]]
	armed   bool
}

// newUnique wires the two storage slots under transient guards, mirroring the
// two-phase acquire protocol: until the value slot commits, its guard owns
// disposal of r; until the deleter slot commits, the second guard covers the
// value already captured in the first.
func newUnique[R any](r R, d Deleter[R], armed bool) *Unique[R] {
	if d == nil {
		panic("goscope: nil deleter")
	}
	u := &Unique[R]{armed: armed}

	vg := scope.OnExit(func() { _ = d(r) })
	defer vg.Run()
	u.value = storage.OwnedGuarded(r, vg)

	dg := scope.OnExit(func() { _ = d(u.value.Get()) })
	defer dg.Run()
	u.deleter = storage.OwnedGuarded(d, dg)

	return u
}

// Get returns the current resource value. Valid whether or not the wrapper
// is armed; the last-assigned value is held until replaced.
func (u *Unique[R]) Get() R {
	return u.value.Get()
}

// Deleter returns the stored deleter.
func (u *Unique[R]) Deleter() Deleter[R] {
	return u.deleter.Get()
}

// IsArmed reports whether the deleter will fire on the next disarm event.
func (u *Unique[R]) IsArmed() bool {
	return u.armed
}

// Reset finalizes the current resource if the wrapper is armed and leaves it
// disarmed. Calling Reset on a disarmed wrapper is a no-op, so back-to-back
// calls invoke the deleter at most once. The deleter's error is returned;
// a deleter panic propagates after the wrapper has already been disarmed.
func (u *Unique[R]) Reset() error {
	if !u.armed {
		return nil
	}
	u.armed = false
	d := u.deleter.Get()
	return d(u.value.Get())
}

// ResetTo finalizes the current resource (if armed), adopts r, and re-arms.
// While the old value is being finalized, a transient guard owns r: if the
// old deleter panics, the guard finalizes r during unwinding so the incoming
// value does not leak. The error from finalizing the old value is returned.
func (u *Unique[R]) ResetTo(r R) error {
	g := scope.OnExit(func() { _ = u.deleter.Get()(r) })
	defer g.Run()

	err := u.Reset()
	u.value.Set(r)
	u.armed = true
	g.Release()
	return err
}

// Release disarms the wrapper without finalizing and returns the resource.
// Cleanup responsibility is the caller's from here on. Get remains valid.
func (u *Unique[R]) Release() R {
	u.armed = false
	return u.value.Get()
}

// Move transfers ownership to a fresh wrapper. The destination inherits the
// value, the deleter and the armed state the source had; the source is
// permanently disarmed before the destination is returned, so there is no
// window in which both could finalize.
func (u *Unique[R]) Move() *Unique[R] {
	moved := &Unique[R]{
		value:   u.value,
		deleter: u.deleter,
		armed:   u.armed,
	}
	u.armed = false
	return moved
}

// Close finalizes the resource, discarding any deleter error. Provided for
// defer sites; safe to call multiple times.
func (u *Unique[R]) Close() {
	_ = u.Reset()
}

// Deref returns the value a pointer-shaped resource points at. It is a thin
// view over Get for wrappers whose resource type is a pointer.
func Deref[T any](u *Unique[*T]) T {
	return *u.Get()
}
