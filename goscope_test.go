package goscope

import (
	"errors"
	"testing"

	"github.com/victoralfred/goscope/resource"
	"github.com/victoralfred/goscope/scope"
)

// fakeHandle mimics a C-style handle API: acquisition returns -1 on failure.
type fakeHandle struct {
	closed []int
}

func (h *fakeHandle) close(fd int) error {
	h.closed = append(h.closed, fd)
	return nil
}

func TestCheckedFactory_EndToEnd(t *testing.T) {
	h := &fakeHandle{}

	valid := NewChecked(5, -1, h.close)
	valid.Close()

	invalid := NewChecked(-1, -1, h.close)
	invalid.Close()

	if len(h.closed) != 1 || h.closed[0] != 5 {
		t.Errorf("Expected exactly [5] closed, got %v", h.closed)
	}
}

func TestResetToSequence_EndToEnd(t *testing.T) {
	h := &fakeHandle{}

	u := New(1, h.close)
	if err := u.ResetTo(2); err != nil {
		t.Fatalf("ResetTo failed: %v", err)
	}
	u.Close()

	if len(h.closed) != 2 || h.closed[0] != 1 || h.closed[1] != 2 {
		t.Errorf("Expected closes [1 2], got %v", h.closed)
	}
}

func TestTransactionPattern(t *testing.T) {
	// The documented rollback-on-failure pattern: a dedicated monitor, the
	// guard registered before Observe so Observe runs first at teardown.
	m := NewMonitor()

	run := func(fail bool) (rolledBack bool, err error) {
		g := scope.OnFailure(m, func() { rolledBack = true })
		defer g.Run()
		defer m.Observe(&err)

		if fail {
			return false, errors.New("constraint violation")
		}
		return false, nil
	}

	rolledBack, err := run(true)
	if err == nil {
		t.Fatal("Expected error")
	}
	m.Resolve()
	if !rolledBack {
		t.Error("Rollback should run on the failure path")
	}

	rolledBack, err = run(false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rolledBack {
		t.Error("Rollback must not run on the success path")
	}
}

func TestAcquire_EndToEnd(t *testing.T) {
	h := &fakeHandle{}

	u, err := Acquire(func() (int, error) { return 9, nil }, h.close)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	u.Close()

	if len(h.closed) != 1 || h.closed[0] != 9 {
		t.Errorf("Expected [9] closed, got %v", h.closed)
	}
}

func TestFacadeGuards(t *testing.T) {
	calls := 0
	g := OnExit(func() { calls++ })
	g.Run()

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestRelease_Handoff(t *testing.T) {
	h := &fakeHandle{}

	u := New(3, h.close)
	fd := u.Release()
	u.Close()

	if fd != 3 {
		t.Errorf("Expected handle 3 back, got %d", fd)
	}
	if len(h.closed) != 0 {
		t.Errorf("Released handle must not be closed by the wrapper, got %v", h.closed)
	}

	// The caller owns cleanup now.
	if err := h.close(fd); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestNopDeleter(t *testing.T) {
	u := New("view", resource.Nop[string]())
	u.Close()

	if got := u.Get(); got != "view" {
		t.Errorf("Get stays valid after Close, got %q", got)
	}
}

func TestVersion(t *testing.T) {
	if Version() == "" {
		t.Error("Version should not be empty")
	}
}
