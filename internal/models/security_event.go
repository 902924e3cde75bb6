package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of a security-relevant event
type EventType string

const (
	EventSuccessfulLogin         EventType = "successful_login"
	EventFailedLogin             EventType = "failed_login"
	EventLogout                  EventType = "logout"
	EventRegistration            EventType = "registration"
	EventPasswordResetRequested  EventType = "password_reset_requested"
	EventPasswordResetSuccessful EventType = "password_reset_successful"
	EventCSRFViolation           EventType = "csrf_violation"
	EventRateLimitExceeded       EventType = "rate_limit_exceeded"
	EventSuspiciousActivity      EventType = "suspicious_activity"
	EventUnauthorizedAccess      EventType = "unauthorized_access"
)

// Severity represents how serious a security event is
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// SecurityEvent is a single append-only record of security-relevant activity.
// UserID is nil for events produced before authentication.
type SecurityEvent struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id"`
	EventType EventType  `json:"event_type"`
	Details   string     `json:"details"`
	Severity  Severity   `json:"severity"`
	IPAddress string     `json:"ip_address"`
	UserAgent string     `json:"user_agent"`
	CreatedAt time.Time  `json:"created_at"`
}

// EventTypeCount aggregates events of one type over a reporting window
type EventTypeCount struct {
	EventType      EventType `json:"event_type"`
	Count          int       `json:"count"`
	LastOccurrence time.Time `json:"last_occurrence"`
}

// SecurityStats summarizes recent security activity for the monitor view
type SecurityStats struct {
	RecentEvents []EventTypeCount `json:"recent_events"`
	FailedLogins int              `json:"failed_logins"`
	UniqueIPs    int              `json:"unique_ips"`
}
