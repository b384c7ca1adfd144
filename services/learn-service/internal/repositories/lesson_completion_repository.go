package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type lessonCompletionRepository struct {
	db *sql.DB
}

// NewLessonCompletionRepository creates a new lesson completion repository
func NewLessonCompletionRepository(db *sql.DB) *lessonCompletionRepository {
	return &lessonCompletionRepository{
		db: db,
	}
}

// Exists checks if a user has completed a day
func (r *lessonCompletionRepository) Exists(ctx context.Context, userID, day int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM lesson_completions WHERE user_id = ? AND day_number = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, day).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check completion existence: %w", err)
	}
	return exists, nil
}

// Create marks a day as completed
func (r *lessonCompletionRepository) Create(ctx context.Context, userID, day int, completedAt time.Time) error {
	query := `INSERT INTO lesson_completions (user_id, day_number, completed_at) VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, userID, day, completedAt); err != nil {
		return fmt.Errorf("failed to create completion: %w", err)
	}
	return nil
}

// Delete removes a day completion
func (r *lessonCompletionRepository) Delete(ctx context.Context, userID, day int) error {
	query := `DELETE FROM lesson_completions WHERE user_id = ? AND day_number = ?`

	result, err := r.db.ExecContext(ctx, query, userID, day)
	if err != nil {
		return fmt.Errorf("failed to delete completion: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("completion record not found")
	}
	return nil
}

// ListDays returns the completed day numbers of a user in ascending order
func (r *lessonCompletionRepository) ListDays(ctx context.Context, userID int) ([]int, error) {
	query := `SELECT day_number FROM lesson_completions WHERE user_id = ? ORDER BY day_number`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	days := make([]int, 0)
	for rows.Next() {
		var day int
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completions: %w", err)
	}
	return days, nil
}
