package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
)

type videoBookmarkRepository struct {
	db *sql.DB
}

// NewVideoBookmarkRepository creates a new video bookmark repository
func NewVideoBookmarkRepository(db *sql.DB) *videoBookmarkRepository {
	return &videoBookmarkRepository{
		db: db,
	}
}

// Toggle removes the bookmark matching (user, video, timestamp) or creates it when absent.
// It reports whether the bookmark exists afterwards.
func (r *videoBookmarkRepository) Toggle(ctx context.Context, b *models.Bookmark) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM video_bookmarks WHERE user_id = ? AND video_id = ? AND timestamp_seconds = ?`,
		b.UserID, b.VideoID, b.TimestampSeconds,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete bookmark: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	created := removed == 0
	if created {
		query := `
			INSERT INTO video_bookmarks (user_id, video_id, timestamp_seconds, note, created_at)
			VALUES (?, ?, ?, ?, ?)
		`
		result, err := tx.ExecContext(ctx, query, b.UserID, b.VideoID, b.TimestampSeconds, b.Note, b.CreatedAt)
		if err != nil {
			return false, fmt.Errorf("failed to create bookmark: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("failed to get last insert id: %w", err)
		}
		b.ID = int(id)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// Upsert creates the bookmark at (user, video, timestamp) or replaces the note of the existing one.
// The stored id is written back to b.
func (r *videoBookmarkRepository) Upsert(ctx context.Context, b *models.Bookmark) error {
	query := `
		INSERT INTO video_bookmarks (user_id, video_id, timestamp_seconds, note, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id), note = VALUES(note)
	`

	result, err := r.db.ExecContext(ctx, query, b.UserID, b.VideoID, b.TimestampSeconds, b.Note, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert bookmark: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	b.ID = int(id)
	return nil
}

// Delete removes the bookmark at (user, video, timestamp) and reports whether one existed
func (r *videoBookmarkRepository) Delete(ctx context.Context, userID int, videoID string, timestampSeconds int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM video_bookmarks WHERE user_id = ? AND video_id = ? AND timestamp_seconds = ?`,
		userID, videoID, timestampSeconds,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete bookmark: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return removed > 0, nil
}

// ListByVideo returns a user's bookmarks in a video ordered by timestamp
func (r *videoBookmarkRepository) ListByVideo(ctx context.Context, userID int, videoID string) ([]models.Bookmark, error) {
	query := `
		SELECT id, user_id, video_id, timestamp_seconds, note, created_at
		FROM video_bookmarks
		WHERE user_id = ? AND video_id = ?
		ORDER BY timestamp_seconds
	`

	rows, err := r.db.QueryContext(ctx, query, userID, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := make([]models.Bookmark, 0)
	for rows.Next() {
		var (
			b    models.Bookmark
			note sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.VideoID, &b.TimestampSeconds, &note, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		b.Note = note.String
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmarks: %w", err)
	}
	return bookmarks, nil
}
