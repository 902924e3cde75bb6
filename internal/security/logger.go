// Package security implements the security-event logger and the
// suspicious-input detector.
package security

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"schoolportal/internal/models"
	"schoolportal/internal/repository"
	"schoolportal/internal/session"
)

// Event describes one security-relevant occurrence to record
type Event struct {
	Type      models.EventType
	Details   string
	Severity  models.Severity
	UserID    *uuid.UUID
	IPAddress string
	UserAgent string
}

// EventLogger records security events to the structured log sink and the
// append-only event store. Logging always succeeds from the caller's
// perspective: availability of the request path never depends on a sink.
type EventLogger struct {
	log  *zap.Logger
	repo repository.SecurityEventRepository
}

// NewEventLogger creates a security event logger. repo may be nil, in which
// case events only go to the log sink.
func NewEventLogger(log *zap.Logger, repo repository.SecurityEventRepository) *EventLogger {
	return &EventLogger{log: log, repo: repo}
}

// Log records the event. Sink failures are swallowed.
func (l *EventLogger) Log(ctx context.Context, ev Event) {
	fields := []zap.Field{
		zap.String("event_type", string(ev.Type)),
		zap.String("details", ev.Details),
		zap.String("severity", string(ev.Severity)),
		zap.String("ip_address", ev.IPAddress),
		zap.String("user_agent", ev.UserAgent),
	}
	if ev.UserID != nil {
		fields = append(fields, zap.String("user_id", ev.UserID.String()))
	}

	switch ev.Severity {
	case models.SeverityCritical:
		l.log.Error("security event", fields...)
	case models.SeverityWarning:
		l.log.Warn("security event", fields...)
	default:
		l.log.Info("security event", fields...)
	}

	if l.repo == nil {
		return
	}
	record := &models.SecurityEvent{
		UserID:    ev.UserID,
		EventType: ev.Type,
		Details:   ev.Details,
		Severity:  ev.Severity,
		IPAddress: ev.IPAddress,
		UserAgent: ev.UserAgent,
	}
	if err := l.repo.Create(ctx, record); err != nil {
		l.log.Warn("failed to persist security event", zap.Error(err))
	}
}

// LogRequest records an event with actor context taken from the request:
// client IP, user agent, and the session's user when one is attached.
func (l *EventLogger) LogRequest(c *gin.Context, eventType models.EventType, details string, severity models.Severity) {
	ev := Event{
		Type:      eventType,
		Details:   details,
		Severity:  severity,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
	if s := session.FromContext(c); s != nil {
		ev.UserID = s.UserID
	}
	l.Log(c.Request.Context(), ev)
}
