package resource

import (
	"errors"
	"fmt"
)

// Sentinel errors for fallible construction.
var (
	// ErrNilAcquire indicates Acquire was called without an acquire function.
	ErrNilAcquire = errors.New("nil acquire function")

	// ErrNilDeleter indicates a constructor was called without a deleter.
	ErrNilDeleter = errors.New("nil deleter")
)

// New creates an armed Unique owning r. The deleter will fire exactly once
// on the next disarm event. Panics if d is nil; construction itself cannot
// fail beyond what constructing r and d already risked at the call site.
func New[R any](r R, d Deleter[R]) *Unique[R] {
	return newUnique(r, d, true)
}

// NewChecked creates a Unique owning r, armed only if r differs from the
// invalid sentinel. This integrates APIs that signal acquisition failure
// through a sentinel value rather than an error:
//
//	fd, _ := unix.Open(path, unix.O_RDONLY, 0)
//	u := resource.NewChecked(fd, -1, closeFD)
//
// A wrapper built disarmed never finalizes unless re-armed via ResetTo.
func NewChecked[R comparable](r R, invalid R, d Deleter[R]) *Unique[R] {
	return newUnique(r, d, r != invalid)
}

// Acquire runs a fallible acquisition and wraps its result. If acquire
// fails nothing is finalized, since nothing was acquired. If wrapping fails
// after a successful acquire, the acquired value is finalized before the
// error returns, so the caller never holds a half-built wrapper and a live
// resource at once.
func Acquire[R any](acquire func() (R, error), d Deleter[R]) (u *Unique[R], err error) {
	if acquire == nil {
		return nil, ErrNilAcquire
	}
	if d == nil {
		return nil, ErrNilDeleter
	}

	r, err := acquire()
	if err != nil {
		return nil, fmt.Errorf("acquiring resource: %w", err)
	}

	return newUnique(r, d, true), nil
}
