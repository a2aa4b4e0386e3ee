package storage

import "testing"

type fakeGuard struct {
	released bool
}

func (g *fakeGuard) Release() { g.released = true }

func TestOwned(t *testing.T) {
	b := Owned(42)

	if got := b.Get(); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}

	b.Set(7)
	if got := b.Get(); got != 7 {
		t.Errorf("Expected 7 after Set, got %d", got)
	}
}

func TestOwned_Take(t *testing.T) {
	b := Owned("handle")

	if got := b.Take(); got != "handle" {
		t.Errorf("Expected handle, got %q", got)
	}
	if got := b.Get(); got != "" {
		t.Errorf("Owned slot should be zeroed after Take, got %q", got)
	}
}

func TestOwned_Ptr(t *testing.T) {
	b := Owned(1)
	*b.Ptr() = 9

	if got := b.Get(); got != 9 {
		t.Errorf("Expected 9 via Ptr mutation, got %d", got)
	}
}

func TestRef_WritesThrough(t *testing.T) {
	external := 10
	b := Ref(&external)

	if got := b.Get(); got != 10 {
		t.Errorf("Expected 10, got %d", got)
	}

	b.Set(20)
	if external != 20 {
		t.Errorf("Set on a reference Box should write through, external=%d", external)
	}

	// Take on a reference leaves the external value in place.
	if got := b.Take(); got != 20 {
		t.Errorf("Expected 20 from Take, got %d", got)
	}
	if external != 20 {
		t.Errorf("Take on a reference must not zero the external value, external=%d", external)
	}
}

func TestOwnedGuarded_ReleasesOnCommit(t *testing.T) {
	g := &fakeGuard{}
	b := OwnedGuarded(5, g)

	if !g.released {
		t.Error("Guard should be released once the value is committed")
	}
	if got := b.Get(); got != 5 {
		t.Errorf("Expected 5, got %d", got)
	}
}
