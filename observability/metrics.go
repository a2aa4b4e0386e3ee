package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics provides in-memory lifetime metrics.
type Metrics struct {
	kindStats           map[string]*KindStats
	totalFinalizations  int64
	failedFinalizations int64
	releases            int64
	leaks               int64
	panics              int64
	totalDuration       int64
	minDuration         int64
	maxDuration         int64
	durationCount       int64
	liveResources       int64
	mu                  sync.RWMutex
}

// KindStats contains per-kind statistics.
type KindStats struct {
	LastEventAt   time.Time
	Kind          string
	LastStatus    string
	Finalizations int64
	Failures      int64
	Releases      int64
	Leaks         int64
	TotalDuration int64
	AvgDuration   int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		kindStats:   make(map[string]*KindStats),
		minDuration: -1,
	}
}

// RecordFinalization records one deleter invocation.
func (m *Metrics) RecordFinalization(kind string, duration time.Duration, err error) {
	atomic.AddInt64(&m.totalFinalizations, 1)
	if err != nil {
		atomic.AddInt64(&m.failedFinalizations, 1)
	}

	d := duration.Nanoseconds()
	atomic.AddInt64(&m.totalDuration, d)
	atomic.AddInt64(&m.durationCount, 1)

	// Min/max under lock; they need compare-and-set semantics.
	m.mu.Lock()
	if m.minDuration < 0 || d < m.minDuration {
		m.minDuration = d
	}
	if d > m.maxDuration {
		m.maxDuration = d
	}
	stats := m.kindStatsLocked(kind)
	stats.Finalizations++
	stats.TotalDuration += d
	stats.AvgDuration = stats.TotalDuration / stats.Finalizations
	stats.LastEventAt = time.Now()
	if err != nil {
		stats.Failures++
		stats.LastStatus = "failed"
	} else {
		stats.LastStatus = "finalized"
	}
	m.mu.Unlock()
}

// RecordRelease records an ownership release without finalization.
func (m *Metrics) RecordRelease(kind string) {
	atomic.AddInt64(&m.releases, 1)

	m.mu.Lock()
	stats := m.kindStatsLocked(kind)
	stats.Releases++
	stats.LastStatus = "released"
	stats.LastEventAt = time.Now()
	m.mu.Unlock()
}

// RecordLeak records a resource collected while still armed.
func (m *Metrics) RecordLeak(kind string) {
	atomic.AddInt64(&m.leaks, 1)

	m.mu.Lock()
	stats := m.kindStatsLocked(kind)
	stats.Leaks++
	stats.LastStatus = "leaked"
	stats.LastEventAt = time.Now()
	m.mu.Unlock()
}

// RecordPanic records a deleter panic.
func (m *Metrics) RecordPanic(kind string) {
	atomic.AddInt64(&m.panics, 1)

	m.mu.Lock()
	stats := m.kindStatsLocked(kind)
	stats.LastStatus = "panicked"
	stats.LastEventAt = time.Now()
	m.mu.Unlock()
}

// AddLive adjusts the live-resource count.
func (m *Metrics) AddLive(delta int64) {
	atomic.AddInt64(&m.liveResources, delta)
}

// Snapshot contains a point-in-time view of the metrics.
type Snapshot struct {
	TotalFinalizations  int64
	FailedFinalizations int64
	Releases            int64
	Leaks               int64
	Panics              int64
	LiveResources       int64
	AvgDuration         time.Duration
	MinDuration         time.Duration
	MaxDuration         time.Duration
	KindStats           map[string]KindStats
}

// Snapshot returns a copy of the current metrics.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		TotalFinalizations:  atomic.LoadInt64(&m.totalFinalizations),
		FailedFinalizations: atomic.LoadInt64(&m.failedFinalizations),
		Releases:            atomic.LoadInt64(&m.releases),
		Leaks:               atomic.LoadInt64(&m.leaks),
		Panics:              atomic.LoadInt64(&m.panics),
		LiveResources:       atomic.LoadInt64(&m.liveResources),
		KindStats:           make(map[string]KindStats),
	}

	count := atomic.LoadInt64(&m.durationCount)
	if count > 0 {
		s.AvgDuration = time.Duration(atomic.LoadInt64(&m.totalDuration) / count)
	}

	m.mu.RLock()
	if m.minDuration >= 0 {
		s.MinDuration = time.Duration(m.minDuration)
	}
	s.MaxDuration = time.Duration(m.maxDuration)
	for kind, stats := range m.kindStats {
		s.KindStats[kind] = *stats
	}
	m.mu.RUnlock()

	return s
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.totalFinalizations, 0)
	atomic.StoreInt64(&m.failedFinalizations, 0)
	atomic.StoreInt64(&m.releases, 0)
	atomic.StoreInt64(&m.leaks, 0)
	atomic.StoreInt64(&m.panics, 0)
	atomic.StoreInt64(&m.totalDuration, 0)
	atomic.StoreInt64(&m.durationCount, 0)
	atomic.StoreInt64(&m.liveResources, 0)

	m.mu.Lock()
	m.minDuration = -1
	m.maxDuration = 0
	m.kindStats = make(map[string]*KindStats)
	m.mu.Unlock()
}

// kindStatsLocked returns the stats entry for kind, creating it if needed.
// Callers must hold m.mu.
func (m *Metrics) kindStatsLocked(kind string) *KindStats {
	stats, ok := m.kindStats[kind]
	if !ok {
		stats = &KindStats{Kind: kind}
		m.kindStats[kind] = stats
	}
	return stats
}
