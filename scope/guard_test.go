package scope

import "testing"

func TestOnExit_RunsExactlyOnce(t *testing.T) {
	calls := 0
	g := OnExit(func() { calls++ })

	g.Run()
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}

	// Second Run is a no-op
	g.Run()
	if calls != 1 {
		t.Errorf("Expected 1 call after second Run, got %d", calls)
	}
}

func TestOnExit_RunsUnderFailure(t *testing.T) {
	m := NewMonitor()
	calls := 0
	g := OnExit(func() { calls++ })

	m.BeginFailure()
	defer m.EndFailure()

	g.Run()
	if calls != 1 {
		t.Errorf("OnExit should run regardless of failure state, got %d calls", calls)
	}
}

func TestOnExit_ReleasePreventsRun(t *testing.T) {
	calls := 0
	g := OnExit(func() { calls++ })

	g.Release()
	g.Run()

	if calls != 0 {
		t.Errorf("Released guard should not run, got %d calls", calls)
	}
}

func TestOnExit_NilActionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("OnExit(nil) should panic")
		}
	}()
	OnExit(nil)
}

func TestOnSuccess_RunsWithoutFailure(t *testing.T) {
	m := NewMonitor()
	calls := 0
	g := OnSuccess(m, func() { calls++ })

	g.Run()
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestOnSuccess_SkipsDuringNewFailure(t *testing.T) {
	m := NewMonitor()
	calls := 0
	g := OnSuccess(m, func() { calls++ })

	m.BeginFailure()
	g.Run()
	m.EndFailure()

	if calls != 0 {
		t.Errorf("OnSuccess should not run while a new failure propagates, got %d calls", calls)
	}
}

func TestOnSuccess_ReleasedNeverRuns(t *testing.T) {
	m := NewMonitor()
	calls := 0
	g := OnSuccess(m, func() { calls++ })
	g.Release()

	// Not even after arbitrarily many counter changes.
	m.BeginFailure()
	m.EndFailure()
	g.Run()

	if calls != 0 {
		t.Errorf("Released guard should never run, got %d calls", calls)
	}
}

func TestOnSuccess_RelativeToCreation(t *testing.T) {
	m := NewMonitor()
	calls := 0

	// A failure is already propagating when the guard is created. A further
	// failure raised and absorbed at an inner scope brings the count back
	// to the snapshot, so the guard still counts as success.
	m.BeginFailure()
	g := OnSuccess(m, func() { calls++ })

	m.BeginFailure()
	m.EndFailure()

	g.Run()
	m.EndFailure()

	if calls != 1 {
		t.Errorf("Success is relative to creation state, expected 1 call, got %d", calls)
	}
}

func TestOnFailure_RunsOnNewFailure(t *testing.T) {
	m := NewMonitor()
	calls := 0
	g := OnFailure(m, func() { calls++ })

	m.BeginFailure()
	g.Run()
	m.EndFailure()

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestOnFailure_SkipsWithoutFailure(t *testing.T) {
	m := NewMonitor()
	calls := 0
	g := OnFailure(m, func() { calls++ })

	g.Run()
	if calls != 0 {
		t.Errorf("OnFailure should not run without a failure, got %d calls", calls)
	}
}

func TestOnFailure_IgnoresPreexistingFailure(t *testing.T) {
	m := NewMonitor()
	calls := 0

	m.BeginFailure()
	g := OnFailure(m, func() { calls++ })

	// The failure propagating at creation is not a new one.
	g.Run()
	m.EndFailure()

	if calls != 0 {
		t.Errorf("OnFailure should ignore failures predating the guard, got %d calls", calls)
	}
}

func TestOnFailure_ReleasedNeverRuns(t *testing.T) {
	m := NewMonitor()
	calls := 0
	g := OnFailure(m, func() { calls++ })
	g.Release()

	m.BeginFailure()
	g.Run()
	m.EndFailure()

	if calls != 0 {
		t.Errorf("Released guard should never run, got %d calls", calls)
	}
}

func TestGuard_MoveTransfersSinglePendingAction(t *testing.T) {
	calls := 0
	src := OnExit(func() { calls++ })

	dst := src.Move()

	// Destroying both fires the action exactly once, from the destination.
	src.Run()
	if calls != 0 {
		t.Errorf("Moved-from guard must not fire, got %d calls", calls)
	}

	dst.Run()
	if calls != 1 {
		t.Errorf("Expected exactly 1 call across both guards, got %d", calls)
	}
}

func TestGuard_MovePreservesPolicyState(t *testing.T) {
	m := NewMonitor()
	calls := 0
	src := OnFailure(m, func() { calls++ })
	dst := src.Move()

	m.BeginFailure()
	src.Run()
	dst.Run()
	m.EndFailure()

	if calls != 1 {
		t.Errorf("Destination should inherit the armed on-failure policy, got %d calls", calls)
	}
}

func TestGuard_MoveOfReleasedStaysReleased(t *testing.T) {
	calls := 0
	src := OnExit(func() { calls++ })
	src.Release()

	dst := src.Move()
	dst.Run()

	if calls != 0 {
		t.Errorf("Destination inherits the released state, got %d calls", calls)
	}
}

func TestGuard_ShouldRun(t *testing.T) {
	g := OnExit(func() {})
	if !g.ShouldRun() {
		t.Error("Fresh OnExit guard should report ShouldRun")
	}

	g.Release()
	if g.ShouldRun() {
		t.Error("Released guard should not report ShouldRun")
	}
}

func TestGuard_PanicInActionStillSpendsGuard(t *testing.T) {
	calls := 0
	g := OnExit(func() {
		calls++
		panic("deleter failure")
	})

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Action panic should propagate out of Run")
			}
		}()
		g.Run()
	}()

	// The guard was spent before the action ran; no second invocation.
	g.Run()
	if calls != 1 {
		t.Errorf("Expected 1 call despite panic, got %d", calls)
	}
}
