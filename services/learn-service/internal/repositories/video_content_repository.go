package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
)

type videoContentRepository struct {
	db *sql.DB
}

// NewVideoContentRepository creates a new video content repository
func NewVideoContentRepository(db *sql.DB) *videoContentRepository {
	return &videoContentRepository{
		db: db,
	}
}

func scanVideoContent(row rowScanner) (*models.VideoContent, error) {
	var (
		v   models.VideoContent
		day sql.NullInt64
	)
	if err := row.Scan(&v.ID, &v.Title, &v.URL, &v.DurationSeconds, &day, &v.CreatedAt); err != nil {
		return nil, err
	}
	if day.Valid {
		d := int(day.Int64)
		v.DayNumber = &d
	}
	return &v, nil
}

// List returns catalogued videos, optionally only those attached to a day
func (r *videoContentRepository) List(ctx context.Context, day *int) ([]models.VideoContent, error) {
	query := `SELECT id, title, url, duration_seconds, day_number, created_at FROM video_content`
	args := []any{}
	if day != nil {
		query += ` WHERE day_number = ?`
		args = append(args, *day)
	}
	query += ` ORDER BY day_number, title`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	videos := make([]models.VideoContent, 0)
	for rows.Next() {
		v, err := scanVideoContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}
	return videos, nil
}

// GetByID returns a catalogued video
func (r *videoContentRepository) GetByID(ctx context.Context, id string) (*models.VideoContent, error) {
	query := `SELECT id, title, url, duration_seconds, day_number, created_at FROM video_content WHERE id = ?`

	v, err := scanVideoContent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("video %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return v, nil
}

// Create inserts a catalogued video; the id is chosen by the caller
func (r *videoContentRepository) Create(ctx context.Context, v *models.VideoContent) error {
	query := `
		INSERT INTO video_content (id, title, url, duration_seconds, day_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, v.ID, v.Title, v.URL, v.DurationSeconds, v.DayNumber, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

// Delete removes a catalogued video
func (r *videoContentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM video_content WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("video %s: %w", id, models.ErrNotFound)
	}
	return nil
}
