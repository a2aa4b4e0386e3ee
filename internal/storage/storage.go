// Package storage provides the one-slot container backing resource wrappers.
//
// A Box holds either an owned value or a reference to an externally owned
// value; which representation is active is decided by the constructor and
// never changes for the life of the Box. The guarded constructor implements
// the two-phase acquire protocol: the transient guard protecting a value is
// released only once the slot has committed it, so a panic raised anywhere
// before the commit leaves the guard armed and its deferred run disposes the
// value that never found an owner.
package storage

// Releaser is the contract a transient construction guard must satisfy.
// *scope.Guard implements it.
type Releaser interface {
	Release()
}

// Box holds an owned T or a reference to an externally owned T.
type Box[T any] struct {
	owned T
	ref   *T
}

// Owned creates a Box owning v.
func Owned[T any](v T) Box[T] {
	return Box[T]{owned: v}
}

// Ref creates a Box referencing the externally owned value at p.
func Ref[T any](p *T) Box[T] {
	return Box[T]{ref: p}
}

// OwnedGuarded creates a Box owning v and releases g once v is committed.
// If committing panics, g stays armed and cleans v up during unwinding.
func OwnedGuarded[T any](v T, g Releaser) Box[T] {
	b := Box[T]{owned: v}
	g.Release()
	return b
}

// Get returns the stored value.
func (b *Box[T]) Get() T {
	if b.ref != nil {
		return *b.ref
	}
	return b.owned
}

// Ptr returns a pointer to the stored value for mutation in place.
func (b *Box[T]) Ptr() *T {
	if b.ref != nil {
		return b.ref
	}
	return &b.owned
}

// Set replaces the stored value. For a reference Box the external value is
// written through.
func (b *Box[T]) Set(v T) {
	if b.ref != nil {
		*b.ref = v
		return
	}
	b.owned = v
}

// Take moves the value out. An owned slot is left holding the zero value;
// a reference slot is left pointing at the external value unchanged.
func (b *Box[T]) Take() T {
	if b.ref != nil {
		return *b.ref
	}
	v := b.owned
	var zero T
	b.owned = zero
	return v
}
