package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aura-academy/portal/services/auth-service/internal/models"
)

type passwordResetRepository struct {
	db *sql.DB
}

// NewPasswordResetRepository creates a new password reset repository
func NewPasswordResetRepository(db *sql.DB) *passwordResetRepository {
	return &passwordResetRepository{
		db: db,
	}
}

// Create inserts a reset code
func (r *passwordResetRepository) Create(ctx context.Context, reset *models.PasswordReset) error {
	query := `
		INSERT INTO password_resets (user_id, token, expires_at)
		VALUES (?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, reset.UserID, reset.Token, reset.ExpiresAt); err != nil {
		return fmt.Errorf("failed to create password reset: %w", err)
	}
	return nil
}

// Consume marks a valid reset code as used and returns the user it belongs to
func (r *passwordResetRepository) Consume(ctx context.Context, token string, now time.Time) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id, userID int
	err = tx.QueryRowContext(ctx, `
		SELECT id, user_id
		FROM password_resets
		WHERE token = ? AND used_at IS NULL AND expires_at > ?
		FOR UPDATE
	`, token, now).Scan(&id, &userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.ErrInvalidToken
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get password reset: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE password_resets SET used_at = ? WHERE id = ?`, now, id); err != nil {
		return 0, fmt.Errorf("failed to mark password reset used: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return userID, nil
}
