package resource

import (
	"errors"
	"testing"
)

func TestNewChecked_ValidResourceArmed(t *testing.T) {
	d := &recordingDeleter{}
	u := NewChecked(5, -1, d.fn())

	if !u.IsArmed() {
		t.Error("Wrapper should be armed for a valid resource")
	}

	u.Close()
	if len(d.calls) != 1 || d.calls[0] != 5 {
		t.Errorf("Expected exactly one deleter call with 5, got %v", d.calls)
	}
}

func TestNewChecked_SentinelDisarmed(t *testing.T) {
	d := &recordingDeleter{}
	u := NewChecked(-1, -1, d.fn())

	if u.IsArmed() {
		t.Error("Wrapper should be disarmed when the resource equals the sentinel")
	}

	u.Close()
	if len(d.calls) != 0 {
		t.Errorf("Sentinel-built wrapper must never finalize, got %v", d.calls)
	}
}

func TestAcquire_Success(t *testing.T) {
	d := &recordingDeleter{}
	u, err := Acquire(func() (int, error) { return 7, nil }, d.fn())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !u.IsArmed() {
		t.Error("Acquired wrapper should be armed")
	}
	if got := u.Get(); got != 7 {
		t.Errorf("Expected 7, got %d", got)
	}

	u.Close()
	if len(d.calls) != 1 || d.calls[0] != 7 {
		t.Errorf("Expected deleter call with 7, got %v", d.calls)
	}
}

func TestAcquire_FailureFinalizesNothing(t *testing.T) {
	d := &recordingDeleter{}
	want := errors.New("device busy")

	u, err := Acquire(func() (int, error) { return 0, want }, d.fn())
	if u != nil {
		t.Error("No wrapper expected on acquisition failure")
	}
	if !errors.Is(err, want) {
		t.Errorf("Expected wrapped acquisition error, got %v", err)
	}
	if len(d.calls) != 0 {
		t.Errorf("Nothing was acquired, nothing to finalize, got %v", d.calls)
	}
}

func TestAcquire_NilArguments(t *testing.T) {
	d := &recordingDeleter{}

	if _, err := Acquire[int](nil, d.fn()); !errors.Is(err, ErrNilAcquire) {
		t.Errorf("Expected ErrNilAcquire, got %v", err)
	}

	if _, err := Acquire(func() (int, error) { return 1, nil }, nil); !errors.Is(err, ErrNilDeleter) {
		t.Errorf("Expected ErrNilDeleter, got %v", err)
	}
}

func TestNop(t *testing.T) {
	u := New(5, Nop[int]())
	if err := u.Reset(); err != nil {
		t.Errorf("Nop deleter should not fail: %v", err)
	}
}

func TestIgnore(t *testing.T) {
	d := &recordingDeleter{err: errors.New("close failed")}
	u := New(5, Ignore(d.fn()))

	if err := u.Reset(); err != nil {
		t.Errorf("Ignore should discard the deleter error, got %v", err)
	}
	if len(d.calls) != 1 {
		t.Errorf("Underlying deleter should still run, got %v", d.calls)
	}
}
