package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
)

const certificateColumns = `id, user_id, code, recipient_name, course_title, issued_at`

type certificateRepository struct {
	db *sql.DB
}

// NewCertificateRepository creates a new certificate repository
func NewCertificateRepository(db *sql.DB) *certificateRepository {
	return &certificateRepository{
		db: db,
	}
}

func (r *certificateRepository) getOne(ctx context.Context, where string, arg any) (*models.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE ` + where

	var c models.Certificate
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.UserID, &c.Code, &c.RecipientName, &c.CourseTitle, &c.IssuedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("certificate: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}
	return &c, nil
}

// GetByUserID returns the certificate issued to a user
func (r *certificateRepository) GetByUserID(ctx context.Context, userID int) (*models.Certificate, error) {
	return r.getOne(ctx, `user_id = ?`, userID)
}

// GetByCode returns the certificate with a verification code
func (r *certificateRepository) GetByCode(ctx context.Context, code string) (*models.Certificate, error) {
	return r.getOne(ctx, `code = ?`, code)
}

// Create inserts a certificate
func (r *certificateRepository) Create(ctx context.Context, c *models.Certificate) error {
	query := `
		INSERT INTO certificates (user_id, code, recipient_name, course_title, issued_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, c.UserID, c.Code, c.RecipientName, c.CourseTitle, c.IssuedAt)
	if err != nil {
		return fmt.Errorf("failed to create certificate: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	c.ID = int(id)
	return nil
}
