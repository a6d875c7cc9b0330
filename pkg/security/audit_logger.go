package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType names an auditable security event.
type EventType string

const (
	EventLoginSuccess    EventType = "login_success"
	EventLoginFailed     EventType = "login_failed"
	EventLoginBlocked    EventType = "login_blocked"
	EventBlockCreated    EventType = "block_created"
	EventRateLimited     EventType = "rate_limit_triggered"
	EventUnauthenticated EventType = "unauthenticated_access"
	EventAccessDenied    EventType = "access_denied"
	EventDataExport      EventType = "data_export"
	EventMalwareRejected EventType = "malware_rejected"
)

// Severity is derived from the event type, never supplied by callers.
type Severity string

const (
	SeverityInfo   Severity = "INFO"
	SeverityMedium Severity = "MEDIUM"
	SeverityWarn   Severity = "WARN"
	SeverityHigh   Severity = "HIGH"
)

var eventSeverity = map[EventType]Severity{
	EventLoginSuccess:    SeverityInfo,
	EventDataExport:      SeverityMedium,
	EventLoginFailed:     SeverityWarn,
	EventRateLimited:     SeverityWarn,
	EventUnauthenticated: SeverityWarn,
	EventLoginBlocked:    SeverityHigh,
	EventBlockCreated:    SeverityHigh,
	EventAccessDenied:    SeverityHigh,
	EventMalwareRejected: SeverityHigh,
}

// GetSeverity defaults to MEDIUM for unmapped types.
func GetSeverity(t EventType) Severity {
	if s, ok := eventSeverity[t]; ok {
		return s
	}
	return SeverityMedium
}

func (s Severity) level() zapcore.Level {
	switch s {
	case SeverityInfo, SeverityMedium:
		return zapcore.InfoLevel
	case SeverityHigh:
		return zapcore.ErrorLevel
	}
	return zapcore.WarnLevel
}

// Event is one audit record. SubjectValue is stored masked.
type Event struct {
	Timestamp    time.Time         `json:"timestamp" bson:"createdAt"`
	Service      string            `json:"service" bson:"service"`
	Environment  string            `json:"env" bson:"env"`
	Severity     Severity          `json:"severity" bson:"severity"`
	Type         EventType         `json:"event" bson:"event"`
	SubjectType  string            `json:"subject_type,omitempty" bson:"subjectType,omitempty"` // "email", "ip", "user_id"
	SubjectValue string            `json:"subject_value,omitempty" bson:"subjectValue,omitempty"`
	IP           string            `json:"ip,omitempty" bson:"ip,omitempty"`
	UserAgent    string            `json:"user_agent,omitempty" bson:"userAgent,omitempty"`
	RequestID    string            `json:"request_id,omitempty" bson:"requestId,omitempty"`
	Details      map[string]string `json:"details,omitempty" bson:"details,omitempty"`
}

// auditQueueSize bounds the events waiting for persistence. Events logged
// while the queue is full are written to zap only.
const auditQueueSize = 256

const persistTimeout = 5 * time.Second

// AuditLogger writes security events to a dedicated zap logger and,
// optionally, to a persistence sink drained by a single worker. A nil
// *AuditLogger discards events.
type AuditLogger struct {
	zap         *zap.Logger
	service     string
	environment string

	mu      sync.RWMutex
	queue   chan Event
	done    chan struct{}
	closed  bool
	persist func(ctx context.Context, event Event) error
}

// NewAuditLogger builds a JSON zap logger on stdout. Use NewAuditLoggerWith
// to supply a custom core.
func NewAuditLogger(service, environment string) *AuditLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	zl, err := cfg.Build()
	if err != nil {
		zl = zap.NewExample()
	}
	return NewAuditLoggerWith(zl, service, environment)
}

func NewAuditLoggerWith(zl *zap.Logger, service, environment string) *AuditLogger {
	return &AuditLogger{
		zap:         zl.Named("audit"),
		service:     service,
		environment: environment,
	}
}

// SetPersistFunc stores every later event through f, off the request path.
// Call it once, before logging starts, and Close the logger on shutdown.
func (a *AuditLogger) SetPersistFunc(f func(ctx context.Context, event Event) error) {
	a.startPersist(f, auditQueueSize)
}

func (a *AuditLogger) startPersist(f func(ctx context.Context, event Event) error, size int) {
	a.persist = f
	a.queue = make(chan Event, size)
	a.done = make(chan struct{})
	go a.drain()
}

func (a *AuditLogger) drain() {
	defer close(a.done)
	for e := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		if err := a.persist(ctx, e); err != nil {
			a.zap.Error("failed to persist security event", zap.String("event", string(e.Type)), zap.Error(err))
		}
		cancel()
	}
}

func (a *AuditLogger) enqueue(event Event) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.queue == nil || a.closed {
		return
	}
	select {
	case a.queue <- event:
	default:
		a.zap.Warn("security event dropped, persistence queue full", zap.String("event", string(event.Type)))
	}
}

// Close stops accepting events for persistence and waits until the queued
// ones are stored or ctx ends.
func (a *AuditLogger) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	if a.queue == nil || a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *AuditLogger) Log(ctx context.Context, event Event) {
	if a == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = a.service
	event.Environment = a.environment
	event.Severity = GetSeverity(event.Type)
	event.SubjectValue = maskValue(event.SubjectType, event.SubjectValue)

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("severity", string(event.Severity)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType), zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}
	a.zap.Log(event.Severity.level(), string(event.Type), fields...)

	a.enqueue(event)
}

func (a *AuditLogger) Sync() error {
	if a == nil {
		return nil
	}
	return a.zap.Sync()
}

// MaskEmail keeps the first letter and the domain: "j***@example.com".
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 3 || at < 0 {
		return "***"
	}
	if at <= 1 {
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue returns the first 16 hex chars of the SHA-256 of value.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}

func maskValue(subjectType, value string) string {
	if value == "" {
		return ""
	}
	switch subjectType {
	case "email":
		return MaskEmail(value)
	case "ip", "user_id":
		return value
	default:
		return HashValue(value)
	}
}
