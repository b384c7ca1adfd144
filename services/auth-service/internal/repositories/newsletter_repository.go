package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

type newsletterRepository struct {
	db *sql.DB
}

// NewNewsletterRepository creates a new newsletter repository
func NewNewsletterRepository(db *sql.DB) *newsletterRepository {
	return &newsletterRepository{
		db: db,
	}
}

// Subscribe adds an address; it reports false when the address was already subscribed
func (r *newsletterRepository) Subscribe(ctx context.Context, email, source string) (bool, error) {
	query := `INSERT IGNORE INTO newsletter_subscribers (email, source) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, email, source)
	if err != nil {
		return false, fmt.Errorf("failed to subscribe: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}
