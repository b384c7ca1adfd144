package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
)

type videoProgressRepository struct {
	db *sql.DB
}

// NewVideoProgressRepository creates a new video progress repository
func NewVideoProgressRepository(db *sql.DB) *videoProgressRepository {
	return &videoProgressRepository{
		db: db,
	}
}

// Get returns the stored progress of a user in a video
func (r *videoProgressRepository) Get(ctx context.Context, userID int, videoID string) (*models.VideoProgress, error) {
	query := `
		SELECT user_id, video_id, last_position, completion_percentage, completed, updated_at
		FROM video_progress
		WHERE user_id = ? AND video_id = ?
	`

	var p models.VideoProgress
	err := r.db.QueryRowContext(ctx, query, userID, videoID).Scan(
		&p.UserID,
		&p.VideoID,
		&p.LastPosition,
		&p.CompletionPercentage,
		&p.Completed,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("progress for video %s: %w", videoID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video progress: %w", err)
	}
	return &p, nil
}

// Upsert writes the progress row for (user, video).
// Once a row is completed it stays completed.
func (r *videoProgressRepository) Upsert(ctx context.Context, p *models.VideoProgress) error {
	query := `
		INSERT INTO video_progress (user_id, video_id, last_position, completion_percentage, completed, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			last_position = VALUES(last_position),
			completion_percentage = VALUES(completion_percentage),
			completed = completed OR VALUES(completed),
			updated_at = VALUES(updated_at)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.UserID,
		p.VideoID,
		p.LastPosition,
		p.CompletionPercentage,
		p.Completed,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert video progress: %w", err)
	}
	return nil
}
