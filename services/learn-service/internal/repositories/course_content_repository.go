package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
)

const courseContentColumns = `id, day_number, title, description, content, video_url, is_published, updated_by, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type courseContentRepository struct {
	db *sql.DB
}

// NewCourseContentRepository creates a new course content repository
func NewCourseContentRepository(db *sql.DB) *courseContentRepository {
	return &courseContentRepository{
		db: db,
	}
}

func scanCourseContent(row rowScanner) (*models.CourseContent, error) {
	var (
		c           models.CourseContent
		description sql.NullString
		content     []byte
		videoURL    sql.NullString
		updatedBy   sql.NullInt64
	)
	err := row.Scan(
		&c.ID,
		&c.DayNumber,
		&c.Title,
		&description,
		&content,
		&videoURL,
		&c.IsPublished,
		&updatedBy,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Description = description.String
	c.Content = content
	if videoURL.Valid {
		c.VideoURL = &videoURL.String
	}
	if updatedBy.Valid {
		id := int(updatedBy.Int64)
		c.UpdatedBy = &id
	}
	return &c, nil
}

// GetLatestByDay returns the most recently updated content row for a day.
// When publishedOnly is set, unpublished rows are ignored.
func (r *courseContentRepository) GetLatestByDay(ctx context.Context, day int, publishedOnly bool) (*models.CourseContent, error) {
	var query strings.Builder
	query.WriteString(`SELECT ` + courseContentColumns + ` FROM course_content WHERE day_number = ?`)
	if publishedOnly {
		query.WriteString(` AND is_published = TRUE`)
	}
	query.WriteString(` ORDER BY updated_at DESC, id DESC LIMIT 1`)

	c, err := scanCourseContent(r.db.QueryRowContext(ctx, query.String(), day))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content for day %d: %w", day, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content for day %d: %w", day, err)
	}
	return c, nil
}

// GetByID returns a content row by id
func (r *courseContentRepository) GetByID(ctx context.Context, id int) (*models.CourseContent, error) {
	query := `SELECT ` + courseContentColumns + ` FROM course_content WHERE id = ?`

	c, err := scanCourseContent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	return c, nil
}

// List returns every content row with its latest version number
func (r *courseContentRepository) List(ctx context.Context) ([]models.CourseContentListItem, error) {
	query := `
		SELECT c.id, c.day_number, c.title, c.is_published, COALESCE(MAX(v.version_number), 0), c.updated_at
		FROM course_content c
		LEFT JOIN content_versions v ON v.content_id = c.id
		GROUP BY c.id, c.day_number, c.title, c.is_published, c.updated_at
		ORDER BY c.day_number, c.updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	defer rows.Close()

	items := make([]models.CourseContentListItem, 0)
	for rows.Next() {
		var item models.CourseContentListItem
		if err := rows.Scan(&item.ID, &item.DayNumber, &item.Title, &item.IsPublished, &item.VersionNumber, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content: %w", err)
	}
	return items, nil
}

// ListTitles returns the authoritative title per day
func (r *courseContentRepository) ListTitles(ctx context.Context, publishedOnly bool) (map[int]string, error) {
	query := `SELECT day_number, title FROM course_content`
	if publishedOnly {
		query += ` WHERE is_published = TRUE`
	}
	query += ` ORDER BY day_number, updated_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %w", err)
	}
	defer rows.Close()

	titles := make(map[int]string)
	for rows.Next() {
		var (
			day   int
			title string
		)
		if err := rows.Scan(&day, &title); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		if _, seen := titles[day]; !seen {
			titles[day] = title
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating titles: %w", err)
	}
	return titles, nil
}

// CreateWithVersion inserts a content row together with its first version
func (r *courseContentRepository) CreateWithVersion(ctx context.Context, c *models.CourseContent, changeNote string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO course_content (day_number, title, description, content, video_url, is_published, updated_by, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, query,
		c.DayNumber,
		c.Title,
		c.Description,
		[]byte(c.Content),
		c.VideoURL,
		c.IsPublished,
		c.UpdatedBy,
		c.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create content: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	c.ID = int(id)

	version, err := insertNextVersion(ctx, tx, c, changeNote)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return version, nil
}

// SaveWithVersion overwrites a content row and appends a version numbered one past the current maximum.
// Both writes happen in one transaction; the row lock serialises concurrent saves of the same item.
func (r *courseContentRepository) SaveWithVersion(ctx context.Context, c *models.CourseContent, changeNote string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lockedID int
	err = tx.QueryRowContext(ctx, `SELECT id FROM course_content WHERE id = ? FOR UPDATE`, c.ID).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("content %d: %w", c.ID, models.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock content: %w", err)
	}

	query := `
		UPDATE course_content
		SET day_number = ?, title = ?, description = ?, content = ?, video_url = ?, is_published = ?, updated_by = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		c.DayNumber,
		c.Title,
		c.Description,
		[]byte(c.Content),
		c.VideoURL,
		c.IsPublished,
		c.UpdatedBy,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update content: %w", err)
	}

	version, err := insertNextVersion(ctx, tx, c, changeNote)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return version, nil
}

func insertNextVersion(ctx context.Context, tx *sql.Tx, c *models.CourseContent, changeNote string) (int, error) {
	var current int
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version_number), 0) FROM content_versions WHERE content_id = ?`, c.ID,
	).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("failed to get max version number: %w", err)
	}

	next := current + 1
	query := `
		INSERT INTO content_versions (content_id, version_number, title, description, change_note, changed_by, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		c.ID,
		next,
		c.Title,
		c.Description,
		changeNote,
		c.UpdatedBy,
		[]byte(c.Content),
		c.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create content version: %w", err)
	}
	return next, nil
}

// Delete removes a content row; its versions are removed by the foreign key cascade
func (r *courseContentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM course_content WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("content %d: %w", id, models.ErrNotFound)
	}
	return nil
}
