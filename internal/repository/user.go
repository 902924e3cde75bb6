package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"schoolportal/internal/models"
)

// UserRepository defines the interface for user account persistence
type UserRepository interface {
	// Create inserts a new account. Returns ErrEmailExists when the email
	// is already taken; the unique constraint is the safety net against
	// concurrent duplicate registration.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
