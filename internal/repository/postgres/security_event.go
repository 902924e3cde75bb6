package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"schoolportal/internal/models"
	"schoolportal/internal/repository"
)

type securityEventRepository struct {
	db *sql.DB
}

// NewSecurityEventRepository creates a new PostgreSQL security event repository
func NewSecurityEventRepository(db *sql.DB) repository.SecurityEventRepository {
	return &securityEventRepository{db: db}
}

func (r *securityEventRepository) Create(ctx context.Context, event *models.SecurityEvent) error {
	query := `
		INSERT INTO security_events (
			id, user_id, event_type, details, severity,
			ip_address, user_agent, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)`

	event.ID = uuid.New()
	event.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.UserID,
		event.EventType,
		event.Details,
		event.Severity,
		event.IPAddress,
		event.UserAgent,
		event.CreatedAt,
	)

	return err
}

func (r *securityEventRepository) CountsByType(ctx context.Context, since time.Time) ([]models.EventTypeCount, error) {
	query := `
		SELECT event_type, COUNT(*), MAX(created_at)
		FROM security_events
		WHERE created_at >= $1
		GROUP BY event_type
		ORDER BY event_type`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.EventTypeCount
	for rows.Next() {
		var c models.EventTypeCount
		if err := rows.Scan(&c.EventType, &c.Count, &c.LastOccurrence); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func (r *securityEventRepository) CountByEventType(ctx context.Context, eventType models.EventType, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM security_events
		WHERE event_type = $1 AND created_at >= $2`

	var count int
	err := r.db.QueryRowContext(ctx, query, eventType, since).Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return count, nil
}

func (r *securityEventRepository) CountUniqueIPs(ctx context.Context, since time.Time) (int, error) {
	query := `
		SELECT COUNT(DISTINCT ip_address)
		FROM security_events
		WHERE created_at >= $1`

	var count int
	err := r.db.QueryRowContext(ctx, query, since).Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return count, nil
}

func (r *securityEventRepository) CleanupOld(ctx context.Context, olderThan time.Duration) error {
	query := `DELETE FROM security_events WHERE created_at < $1`
	cutoff := time.Now().Add(-olderThan)
	_, err := r.db.ExecContext(ctx, query, cutoff)
	return err
}
