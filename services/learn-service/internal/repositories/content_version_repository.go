package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
)

const contentVersionColumns = `id, content_id, version_number, title, description, change_note, changed_by, content, created_at`

type contentVersionRepository struct {
	db *sql.DB
}

// NewContentVersionRepository creates a new content version repository
func NewContentVersionRepository(db *sql.DB) *contentVersionRepository {
	return &contentVersionRepository{
		db: db,
	}
}

func scanContentVersion(row rowScanner) (*models.ContentVersion, error) {
	var (
		v           models.ContentVersion
		description sql.NullString
		changeNote  sql.NullString
		changedBy   sql.NullInt64
		content     []byte
	)
	if err := row.Scan(&v.ID, &v.ContentID, &v.VersionNumber, &v.Title, &description, &changeNote, &changedBy, &content, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.Description = description.String
	v.ChangeNote = changeNote.String
	if changedBy.Valid {
		id := int(changedBy.Int64)
		v.ChangedBy = &id
	}
	v.Content = content
	return &v, nil
}

// ListByContentID returns all versions of a content item, newest first
func (r *contentVersionRepository) ListByContentID(ctx context.Context, contentID int) ([]models.ContentVersion, error) {
	query := `SELECT ` + contentVersionColumns + ` FROM content_versions WHERE content_id = ? ORDER BY version_number DESC`

	rows, err := r.db.QueryContext(ctx, query, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	defer rows.Close()

	versions := make([]models.ContentVersion, 0)
	for rows.Next() {
		v, err := scanContentVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating versions: %w", err)
	}
	return versions, nil
}

// GetByNumber returns one version of a content item
func (r *contentVersionRepository) GetByNumber(ctx context.Context, contentID, versionNumber int) (*models.ContentVersion, error) {
	query := `SELECT ` + contentVersionColumns + ` FROM content_versions WHERE content_id = ? AND version_number = ?`

	v, err := scanContentVersion(r.db.QueryRowContext(ctx, query, contentID, versionNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("version %d of content %d: %w", versionNumber, contentID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	return v, nil
}

// MaxVersionNumber returns the highest version number of a content item, 0 when it has none
func (r *contentVersionRepository) MaxVersionNumber(ctx context.Context, contentID int) (int, error) {
	var current int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version_number), 0) FROM content_versions WHERE content_id = ?`, contentID,
	).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("failed to get max version number: %w", err)
	}
	return current, nil
}
