package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aura-academy/portal/services/auth-service/internal/models"
)

type setupTokenRepository struct {
	db *sql.DB
}

// NewSetupTokenRepository creates a new setup token repository
func NewSetupTokenRepository(db *sql.DB) *setupTokenRepository {
	return &setupTokenRepository{
		db: db,
	}
}

// Create inserts a setup token
func (r *setupTokenRepository) Create(ctx context.Context, t *models.SetupToken) error {
	query := `
		INSERT INTO setup_tokens (token, created_by, expires_at)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, t.Token, t.CreatedBy, t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create setup token: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	t.ID = int(id)
	return nil
}

// Redeem marks an unused, unexpired token as used by userID.
// A token can be redeemed once; any other state returns ErrInvalidToken.
func (r *setupTokenRepository) Redeem(ctx context.Context, token string, userID int, now time.Time) error {
	query := `
		UPDATE setup_tokens
		SET used_by = ?, used_at = ?
		WHERE token = ? AND used_at IS NULL AND expires_at > ?
	`

	result, err := r.db.ExecContext(ctx, query, userID, now, token, now)
	if err != nil {
		return fmt.Errorf("failed to redeem setup token: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrInvalidToken
	}
	return nil
}
