package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
)

type activityLogRepository struct {
	db *sql.DB
}

// NewActivityLogRepository creates a new activity log repository
func NewActivityLogRepository(db *sql.DB) *activityLogRepository {
	return &activityLogRepository{
		db: db,
	}
}

// Create records an activity
func (r *activityLogRepository) Create(ctx context.Context, a *models.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (user_id, action, metadata, ip_address, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	var metadata any
	if len(a.Metadata) > 0 {
		metadata = []byte(a.Metadata)
	}
	result, err := r.db.ExecContext(ctx, query, a.UserID, a.Action, metadata, a.IPAddress, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	a.ID = int(id)
	return nil
}

// List returns activity newest first, optionally for a single user
func (r *activityLogRepository) List(ctx context.Context, userID *int, limit, offset int) ([]models.ActivityLog, error) {
	query := `SELECT id, user_id, action, metadata, ip_address, created_at FROM activity_logs`
	args := []any{}
	if userID != nil {
		query += ` WHERE user_id = ?`
		args = append(args, *userID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	logs := make([]models.ActivityLog, 0)
	for rows.Next() {
		var (
			a        models.ActivityLog
			metadata []byte
			ip       sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &metadata, &ip, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		if len(metadata) > 0 {
			a.Metadata = metadata
		}
		a.IPAddress = ip.String
		logs = append(logs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity logs: %w", err)
	}
	return logs, nil
}
