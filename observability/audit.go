package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/victoralfred/gowritter/safepath"
	"golang.org/x/time/rate"
)

// ErrAuditThrottled indicates an audit event was dropped by the write
// throttle.
var ErrAuditThrottled = errors.New("audit event throttled")

// AuditLogger provides an immutable trail of lifetime events.
type AuditLogger interface {
	// Log logs an audit event.
	Log(ctx context.Context, event *AuditEvent) error

	// Query queries audit events.
	Query(ctx context.Context, filter *AuditFilter) ([]*AuditEvent, error)

	// Close closes the audit logger.
	Close() error
}

// AuditEvent represents an audit log entry.
type AuditEvent struct {
	Timestamp  time.Time         `json:"timestamp"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	ID         string            `json:"id"`
	ResourceID string            `json:"resource_id"`
	Kind       string            `json:"kind"`
	Status     string            `json:"status"`
	Error      string            `json:"error,omitempty"`
	TraceID    string            `json:"trace_id,omitempty"`
	Type       AuditEventType    `json:"type"`
	Duration   time.Duration     `json:"duration"`
}

// AuditEventType represents the type of audit event.
type AuditEventType string

const (
	// AuditEventFinalize is a deleter invocation event.
	AuditEventFinalize AuditEventType = "finalize"

	// AuditEventRelease is an ownership-release event.
	AuditEventRelease AuditEventType = "release"

	// AuditEventLeak is a resource collected while still armed.
	AuditEventLeak AuditEventType = "leak"

	// AuditEventPanic is a deleter panic event.
	AuditEventPanic AuditEventType = "panic"
)

// AuditFilter filters audit events.
type AuditFilter struct {
	// StartTime is the start of the time range.
	StartTime time.Time

	// EndTime is the end of the time range.
	EndTime time.Time

	// Kind filters by resource kind.
	Kind string

	// Type filters by event type.
	Type AuditEventType

	// Limit is the maximum number of events to return.
	Limit int
}

// AuditConfig configures the audit logger.
type AuditConfig struct {
	LogLevel     AuditLogLevel `yaml:"log_level"`
	BasePath     string        `yaml:"base_path"`
	FilePath     string        `yaml:"file_path"`
	MaxPerSecond float64       `yaml:"max_per_second"`
	Burst        int           `yaml:"burst"`
	Enabled      bool          `yaml:"enabled"`
}

// AuditLogLevel determines what events to log.
type AuditLogLevel string

const (
	// AuditLogAll logs all events.
	AuditLogAll AuditLogLevel = "all"

	// AuditLogFailures logs failed finalizations, leaks and panics.
	AuditLogFailures AuditLogLevel = "failures"
)

// DefaultAuditConfig returns default audit configuration.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Enabled:      true,
		LogLevel:     AuditLogAll,
		BasePath:     "/var/log",
		FilePath:     "goscope/audit.log",
		MaxPerSecond: 500,
		Burst:        1000,
	}
}

// NewAuditEvent creates an audit event for a lifetime occurrence.
func NewAuditEvent(typ AuditEventType, kind, resourceID string, duration time.Duration, err error) *AuditEvent {
	event := &AuditEvent{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		Type:       typ,
		Kind:       kind,
		ResourceID: resourceID,
		Duration:   duration,
		Status:     "ok",
	}

	if err != nil {
		event.Error = err.Error()
		event.Status = "failed"
	}
	if typ == AuditEventLeak || typ == AuditEventPanic {
		event.Status = "failed"
	}

	return event
}

// fileAuditLogger implements AuditLogger using gowritter.
type fileAuditLogger struct {
	safePath *safepath.SafePath
	limiter  *rate.Limiter
	config   AuditConfig
	mu       sync.Mutex
}

// NewFileAuditLogger creates a new file-based audit logger. Writes beyond
// the configured rate are dropped with ErrAuditThrottled so a runaway
// finalization loop cannot fill the disk.
func NewFileAuditLogger(config AuditConfig) (AuditLogger, error) {
	sp, err := safepath.New(config.BasePath)
	if err != nil {
		return nil, fmt.Errorf("creating safe path: %w", err)
	}

	return &fileAuditLogger{
		config:   config,
		safePath: sp,
		limiter:  rate.NewLimiter(rate.Limit(config.MaxPerSecond), config.Burst),
	}, nil
}

// Log implements AuditLogger.Log.
func (l *fileAuditLogger) Log(ctx context.Context, event *AuditEvent) error {
	if !l.config.Enabled {
		return nil
	}

	if !l.shouldLog(event) {
		return nil
	}

	if !l.limiter.Allow() {
		return ErrAuditThrottled
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling audit event: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.safePath.AppendFile(l.config.FilePath, data, 0o644); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}

	return nil
}

// Query implements AuditLogger.Query.
func (l *fileAuditLogger) Query(ctx context.Context, filter *AuditFilter) ([]*AuditEvent, error) {
	data, err := l.safePath.ReadFile(l.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	return filterEvents(parseEvents(data), filter), nil
}

// Close implements AuditLogger.Close.
func (l *fileAuditLogger) Close() error {
	return nil
}

func (l *fileAuditLogger) shouldLog(event *AuditEvent) bool {
	switch l.config.LogLevel {
	case AuditLogAll:
		return true
	case AuditLogFailures:
		return event.Status != "ok"
	default:
		return true
	}
}

// memoryAuditLogger implements AuditLogger in memory. Useful in tests and
// for short-lived tools that only want Query.
type memoryAuditLogger struct {
	events []*AuditEvent
	mu     sync.Mutex
}

// NewMemoryAuditLogger creates an in-memory audit logger.
func NewMemoryAuditLogger() AuditLogger {
	return &memoryAuditLogger{}
}

func (l *memoryAuditLogger) Log(ctx context.Context, event *AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *memoryAuditLogger) Query(ctx context.Context, filter *AuditFilter) ([]*AuditEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return filterEvents(append([]*AuditEvent(nil), l.events...), filter), nil
}

func (l *memoryAuditLogger) Close() error {
	return nil
}

// parseEvents decodes a JSON-lines audit log, skipping undecodable lines.
func parseEvents(data []byte) []*AuditEvent {
	var events []*AuditEvent
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var event AuditEvent
		if err := json.Unmarshal(line, &event); err != nil {
			continue
		}
		events = append(events, &event)
	}
	return events
}

func filterEvents(events []*AuditEvent, filter *AuditFilter) []*AuditEvent {
	if filter == nil {
		return events
	}

	var out []*AuditEvent
	for _, event := range events {
		if !filter.StartTime.IsZero() && event.Timestamp.Before(filter.StartTime) {
			continue
		}
		if !filter.EndTime.IsZero() && event.Timestamp.After(filter.EndTime) {
			continue
		}
		if filter.Kind != "" && event.Kind != filter.Kind {
			continue
		}
		if filter.Type != "" && event.Type != filter.Type {
			continue
		}
		out = append(out, event)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out
}
