package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"schoolportal/internal/repository"
)

type passwordResetRepository struct {
	db *sql.DB
}

// NewPasswordResetRepository creates a new PostgreSQL reset token repository
func NewPasswordResetRepository(db *sql.DB) repository.PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, userID uuid.UUID) (*repository.PasswordReset, error) {
	token, err := repository.GenerateResetToken()
	if err != nil {
		return nil, err
	}

	reset := &repository.PasswordReset{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(repository.ResetTokenExpiration),
	}

	query := `
		INSERT INTO password_reset_tokens (id, user_id, token, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err = r.db.QueryRowContext(ctx, query,
		reset.ID,
		reset.UserID,
		reset.Token,
		reset.ExpiresAt,
	).Scan(&reset.CreatedAt)

	if err != nil {
		return nil, err
	}

	return reset, nil
}

func (r *passwordResetRepository) GetByToken(ctx context.Context, token string) (*repository.PasswordReset, error) {
	reset := &repository.PasswordReset{}
	query := `
		SELECT id, user_id, token, expires_at, used_at, created_at
		FROM password_reset_tokens
		WHERE token = $1`

	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&reset.ID,
		&reset.UserID,
		&reset.Token,
		&reset.ExpiresAt,
		&reset.UsedAt,
		&reset.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrResetTokenInvalid
	}
	if err != nil {
		return nil, err
	}

	if reset.UsedAt != nil {
		return nil, repository.ErrResetTokenUsed
	}

	if time.Now().After(reset.ExpiresAt) {
		return nil, repository.ErrResetTokenExpired
	}

	return reset, nil
}

func (r *passwordResetRepository) MarkAsUsed(ctx context.Context, id uuid.UUID) error {
	// The used_at guard makes consumption atomic: the second caller sees
	// zero rows affected.
	query := `
		UPDATE password_reset_tokens
		SET used_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND used_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrResetTokenUsed
	}

	return nil
}

func (r *passwordResetRepository) DeleteExpired(ctx context.Context) error {
	query := `DELETE FROM password_reset_tokens WHERE expires_at < CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, query)
	return err
}
