package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
)

type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *sql.DB) *enrollmentRepository {
	return &enrollmentRepository{
		db: db,
	}
}

// Get returns the enrollment of a user
func (r *enrollmentRepository) Get(ctx context.Context, userID int) (*models.Enrollment, error) {
	query := `SELECT user_id, email, name, enrolled_at FROM enrollments WHERE user_id = ?`

	var e models.Enrollment
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&e.UserID, &e.Email, &e.Name, &e.EnrolledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("enrollment of user %d: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return &e, nil
}

// Upsert records an enrollment; an existing enrollment keeps its start date
func (r *enrollmentRepository) Upsert(ctx context.Context, e *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (user_id, email, name, enrolled_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE email = VALUES(email), name = VALUES(name)
	`
	if _, err := r.db.ExecContext(ctx, query, e.UserID, e.Email, e.Name, e.EnrolledAt); err != nil {
		return fmt.Errorf("failed to upsert enrollment: %w", err)
	}
	return nil
}

// ListUnlockingOn returns students with an e-mail address whose day 2..days unlocks on date
func (r *enrollmentRepository) ListUnlockingOn(ctx context.Context, date time.Time, days int) ([]models.DripUnlock, error) {
	query := `
		SELECT user_id, email, name, DATEDIFF(?, DATE(enrolled_at)) + 1
		FROM enrollments
		WHERE email <> '' AND DATEDIFF(?, DATE(enrolled_at)) BETWEEN 1 AND ?
		ORDER BY user_id
	`
	day := date.Format(time.DateOnly)

	rows, err := r.db.QueryContext(ctx, query, day, day, days-1)
	if err != nil {
		return nil, fmt.Errorf("failed to query drip unlocks: %w", err)
	}
	defer rows.Close()

	unlocks := make([]models.DripUnlock, 0)
	for rows.Next() {
		var u models.DripUnlock
		if err := rows.Scan(&u.UserID, &u.Email, &u.Name, &u.DayNumber); err != nil {
			return nil, fmt.Errorf("failed to scan drip unlock: %w", err)
		}
		unlocks = append(unlocks, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drip unlocks: %w", err)
	}
	return unlocks, nil
}
