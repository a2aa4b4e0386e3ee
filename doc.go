// Package goscope provides deterministic, exactly-once finalization of
// externally-owned resources.
//
// GoScope couples handle-style resources (file descriptors, raw pointers,
// native handles) with the call that releases them, and guarantees the
// release runs exactly once over the owner's lifetime: at teardown, at
// replacement, or never if ownership is released back to the caller.
//
// # Key Features
//
//   - Scope guards with three completion policies: run always, run only on
//     success, run only on failure
//   - Unique-ownership resource wrapper with exactly-once finalization
//     across reset, replacement and ownership transfer
//   - Checked construction against an "invalid handle" sentinel
//   - Guarded two-phase acquisition so a failure mid-construction never
//     leaks the part already acquired
//   - OpenTelemetry integration, lifecycle hooks and an audit trail for
//     finalization events
//
// # Basic Usage
//
//	f, err := os.CreateTemp("", "upload-*")
//	if err != nil {
//	    return err
//	}
//	u := goscope.New(f, resource.Closer[*os.File]())
//	defer u.Close()
//
//	// ... use u.Get() ...
//
//	if handoff {
//	    f = u.Release() // caller owns cleanup from here
//	}
//
// # Conditional Guards
//
// The success/failure-conditional guards read an explicit failure monitor,
// driven by the protected code. Register the guard first and the monitor's
// Observe last, so Observe runs first during teardown:
//
//	func install(m *scope.Monitor, dir string) (err error) {
//	    g := scope.OnFailure(m, func() { os.RemoveAll(dir) })
//	    defer g.Run()
//	    defer m.Observe(&err)
//
//	    // ... fallible work; the rollback runs only if err is non-nil ...
//	    return nil
//	}
//
// # Sentinel-Style APIs
//
// APIs that report failure through an invalid handle value integrate via
// the checked factory; a wrapper built from the sentinel never finalizes:
//
//	fd, _ := unix.Open(path, unix.O_RDONLY, 0)
//	u := goscope.NewChecked(fd, -1, closeFD)
//	defer u.Close()
//
// # Failure Semantics
//
// Deleters return errors, which Reset and ResetTo surface to the caller;
// Close discards them for defer sites. A deleter that panics propagates
// unrecovered, after the owning wrapper has already been disarmed, so the
// panic can never cause a second invocation.
//
// # Thread Safety
//
// Guards and resource wrappers have single-owner semantics and are not safe
// for concurrent use; ownership moves between goroutines only through Move.
// Monitors, trackers and registries are safe for concurrent use.
package goscope
