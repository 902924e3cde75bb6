package repository

import (
	"context"
	"time"

	"schoolportal/internal/models"
)

// SecurityEventRepository defines the interface for the append-only
// security event store. Records are never mutated after Create.
type SecurityEventRepository interface {
	Create(ctx context.Context, event *models.SecurityEvent) error
	// CountsByType aggregates events per type since the given time
	CountsByType(ctx context.Context, since time.Time) ([]models.EventTypeCount, error)
	CountByEventType(ctx context.Context, eventType models.EventType, since time.Time) (int, error)
	CountUniqueIPs(ctx context.Context, since time.Time) (int, error)
	CleanupOld(ctx context.Context, olderThan time.Duration) error
}
