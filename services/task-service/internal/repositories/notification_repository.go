package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aura-academy/portal/services/task-service/internal/models"
)

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

// Create inserts a pending notification
func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	params := n.Params
	if params == nil {
		params = []string{}
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode notification params: %w", err)
	}

	query := `
		INSERT INTO notifications (user_id, template_id, recipient, params, ` + "`status`" + `)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, n.UserID, n.TemplateID, n.Recipient, string(raw), models.NotificationStatusPending)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	n.ID = int(id)
	n.Status = models.NotificationStatusPending
	return nil
}

// GetByID retrieves a notification by ID
func (r *notificationRepository) GetByID(ctx context.Context, id int) (*models.Notification, error) {
	query := `
		SELECT id, user_id, template_id, recipient, params, ` + "`status`" + `, COALESCE(error, ''), created_at, sent_at
		FROM notifications
		WHERE id = ?
		LIMIT 1
	`

	n := &models.Notification{}
	var (
		userID sql.NullInt64
		params []byte
		sentAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&n.ID,
		&userID,
		&n.TemplateID,
		&n.Recipient,
		&params,
		&n.Status,
		&n.Error,
		&n.CreatedAt,
		&sentAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notification: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification by ID: %w", err)
	}

	if userID.Valid {
		v := int(userID.Int64)
		n.UserID = &v
	}
	if sentAt.Valid {
		n.SentAt = &sentAt.Time
	}
	n.Params = []string{}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &n.Params); err != nil {
			return nil, fmt.Errorf("failed to decode notification params: %w", err)
		}
	}

	return n, nil
}

// GetAll retrieves a paginated list of notifications, newest first
func (r *notificationRepository) GetAll(ctx context.Context, page, count int, filter models.NotificationFilter) ([]models.NotificationListItem, error) {
	var whereConditions []string
	var args []any

	if filter.UserID != 0 {
		whereConditions = append(whereConditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.TemplateID != 0 {
		whereConditions = append(whereConditions, "template_id = ?")
		args = append(args, filter.TemplateID)
	}
	if filter.Status != "" {
		whereConditions = append(whereConditions, "`status` = ?")
		args = append(args, filter.Status)
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	offset := (page - 1) * count

	query := fmt.Sprintf(`
		SELECT id, user_id, template_id, recipient, `+"`status`"+`, created_at
		FROM notifications
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, whereClause)

	args = append(args, count, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	items := []models.NotificationListItem{}
	for rows.Next() {
		var item models.NotificationListItem
		var userID sql.NullInt64
		if err := rows.Scan(&item.ID, &userID, &item.TemplateID, &item.Recipient, &item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if userID.Valid {
			v := int(userID.Int64)
			item.UserID = &v
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

// MarkCompleted records a successful delivery
func (r *notificationRepository) MarkCompleted(ctx context.Context, id int, sentAt time.Time) error {
	query := `UPDATE notifications SET ` + "`status`" + ` = ?, error = NULL, sent_at = ? WHERE id = ?`
	return r.exec(ctx, query, models.NotificationStatusCompleted, sentAt, id)
}

// MarkFailed records a failed delivery attempt
func (r *notificationRepository) MarkFailed(ctx context.Context, id int, errorMsg string) error {
	query := `UPDATE notifications SET ` + "`status`" + ` = ?, error = ? WHERE id = ?`
	return r.exec(ctx, query, models.NotificationStatusFailed, errorMsg, id)
}

// ResetToPending puts a failed notification back in the queue
func (r *notificationRepository) ResetToPending(ctx context.Context, id int) error {
	query := `UPDATE notifications SET ` + "`status`" + ` = ?, error = NULL WHERE id = ? AND ` + "`status`" + ` = ?`
	result, err := r.db.ExecContext(ctx, query, models.NotificationStatusPending, id, models.NotificationStatusFailed)
	if err != nil {
		return fmt.Errorf("failed to reset notification: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: only failed notifications can be retried", models.ErrValidation)
	}
	return nil
}

func (r *notificationRepository) exec(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("notification: %w", models.ErrNotFound)
	}

	return nil
}
