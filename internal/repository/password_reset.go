package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

const (
	// ResetTokenLength is the token size in bytes before hex encoding
	ResetTokenLength = 32
	// ResetTokenExpiration is how long a reset token stays valid
	ResetTokenExpiration = 1 * time.Hour
)

// PasswordReset represents a single-use password reset token
type PasswordReset struct {
	ID        uuid.UUID  `db:"id"`
	UserID    uuid.UUID  `db:"user_id"`
	Token     string     `db:"token"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}

// PasswordResetRepository defines the interface for reset token persistence
type PasswordResetRepository interface {
	Create(ctx context.Context, userID uuid.UUID) (*PasswordReset, error)
	// GetByToken returns ErrResetTokenInvalid for unknown tokens,
	// ErrResetTokenUsed for consumed ones, and ErrResetTokenExpired past
	// the expiry.
	GetByToken(ctx context.Context, token string) (*PasswordReset, error)
	MarkAsUsed(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) error
}

// GenerateResetToken produces a random unguessable token value
func GenerateResetToken() (string, error) {
	bytes := make([]byte, ResetTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
