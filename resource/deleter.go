// Package resource provides a unique-ownership wrapper for handle-style
// resources that require an explicit release call.
//
// A Unique couples a resource value with a deleter and guarantees the deleter
// is invoked with the current value exactly once per armed-to-disarmed
// transition: at Reset, at ResetTo (for the outgoing value), or at Close.
// Release hands cleanup responsibility back to the caller, and Move hands the
// whole ownership to a new wrapper while permanently disarming the source.
package resource

import "io"

// Deleter releases a resource. A non-nil error reports a failed release;
// the library never swallows it except in Close.
type Deleter[R any] func(R) error

// Nop returns a deleter that does nothing. Useful for resources whose
// cleanup is owned elsewhere but that still want the wrapper's ownership
// tracking.
func Nop[R any]() Deleter[R] {
	return func(R) error { return nil }
}

// Closer adapts resources implementing io.Closer.
//
//	u := resource.New(file, resource.Closer[*os.File]())
func Closer[R io.Closer]() Deleter[R] {
	return func(r R) error { return r.Close() }
}

// Ignore wraps a deleter, discarding its error. For call sites that must
// not fail, such as deferred cleanup in tests.
func Ignore[R any](d Deleter[R]) Deleter[R] {
	return func(r R) error {
		_ = d(r)
		return nil
	}
}
