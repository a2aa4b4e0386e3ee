package observability

import (
	"errors"
	"testing"
	"time"
)

func TestMetrics_RecordFinalization(t *testing.T) {
	m := NewMetrics()

	m.RecordFinalization("fd", 10*time.Millisecond, nil)
	m.RecordFinalization("fd", 30*time.Millisecond, errors.New("close failed"))

	s := m.Snapshot()
	if s.TotalFinalizations != 2 {
		t.Errorf("Expected 2 finalizations, got %d", s.TotalFinalizations)
	}
	if s.FailedFinalizations != 1 {
		t.Errorf("Expected 1 failed finalization, got %d", s.FailedFinalizations)
	}
	if s.MinDuration != 10*time.Millisecond {
		t.Errorf("Expected min 10ms, got %v", s.MinDuration)
	}
	if s.MaxDuration != 30*time.Millisecond {
		t.Errorf("Expected max 30ms, got %v", s.MaxDuration)
	}
	if s.AvgDuration != 20*time.Millisecond {
		t.Errorf("Expected avg 20ms, got %v", s.AvgDuration)
	}

	stats, ok := s.KindStats["fd"]
	if !ok {
		t.Fatal("Expected kind stats for fd")
	}
	if stats.Finalizations != 2 || stats.Failures != 1 {
		t.Errorf("Unexpected kind stats: %+v", stats)
	}
	if stats.LastStatus != "failed" {
		t.Errorf("Expected last status failed, got %q", stats.LastStatus)
	}
}

func TestMetrics_RecordReleaseAndLeak(t *testing.T) {
	m := NewMetrics()

	m.RecordRelease("conn")
	m.RecordLeak("conn")
	m.RecordPanic("conn")

	s := m.Snapshot()
	if s.Releases != 1 {
		t.Errorf("Expected 1 release, got %d", s.Releases)
	}
	if s.Leaks != 1 {
		t.Errorf("Expected 1 leak, got %d", s.Leaks)
	}
	if s.Panics != 1 {
		t.Errorf("Expected 1 panic, got %d", s.Panics)
	}
	if s.KindStats["conn"].LastStatus != "panicked" {
		t.Errorf("Expected last status panicked, got %q", s.KindStats["conn"].LastStatus)
	}
}

func TestMetrics_Live(t *testing.T) {
	m := NewMetrics()

	m.AddLive(1)
	m.AddLive(1)
	m.AddLive(-1)

	if got := m.Snapshot().LiveResources; got != 1 {
		t.Errorf("Expected 1 live resource, got %d", got)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics()
	m.RecordFinalization("fd", time.Millisecond, nil)
	m.RecordRelease("fd")

	m.Reset()

	s := m.Snapshot()
	if s.TotalFinalizations != 0 || s.Releases != 0 || len(s.KindStats) != 0 {
		t.Errorf("Expected empty metrics after Reset, got %+v", s)
	}
}
