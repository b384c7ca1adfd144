package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aura-academy/portal/services/task-service/internal/models"
	mysqlDriver "github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the MySQL error number of a unique key violation
const mysqlDuplicateEntry = 1062

type emailTemplateRepository struct {
	db *sql.DB
}

// NewEmailTemplateRepository creates a new email template repository
func NewEmailTemplateRepository(db *sql.DB) *emailTemplateRepository {
	return &emailTemplateRepository{db: db}
}

// Create inserts a new email template
func (r *emailTemplateRepository) Create(ctx context.Context, template *models.EmailTemplate) error {
	query := `
		INSERT INTO email_templates (slug, subject_template, body_template)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, template.Slug, template.SubjectTemplate, template.BodyTemplate)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.ErrSlugTaken
		}
		return fmt.Errorf("failed to create email template: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	template.ID = int(id)
	return nil
}

// GetByID retrieves an email template by ID
func (r *emailTemplateRepository) GetByID(ctx context.Context, id int) (*models.EmailTemplate, error) {
	query := `
		SELECT id, slug, subject_template, body_template, created_at, updated_at
		FROM email_templates
		WHERE id = ?
		LIMIT 1
	`

	template := &models.EmailTemplate{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&template.ID,
		&template.Slug,
		&template.SubjectTemplate,
		&template.BodyTemplate,
		&template.CreatedAt,
		&template.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("email template: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email template by ID: %w", err)
	}

	return template, nil
}

// GetPartsByID retrieves the subject and body of a template
func (r *emailTemplateRepository) GetPartsByID(ctx context.Context, id int) (*models.EmailTemplateParts, error) {
	query := `SELECT subject_template, body_template FROM email_templates WHERE id = ? LIMIT 1`

	parts := &models.EmailTemplateParts{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&parts.SubjectTemplate, &parts.BodyTemplate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("email template: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email template parts by ID: %w", err)
	}
	return parts, nil
}

// GetIDBySlug retrieves an email template ID by slug
func (r *emailTemplateRepository) GetIDBySlug(ctx context.Context, slug string) (int, error) {
	query := "SELECT id FROM email_templates WHERE slug = ? LIMIT 1"

	var id int
	err := r.db.QueryRowContext(ctx, query, slug).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("email template %q: %w", slug, models.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get email template by slug: %w", err)
	}

	return id, nil
}

// GetAll retrieves a paginated list of email templates with optional search
func (r *emailTemplateRepository) GetAll(ctx context.Context, page, count int, search string) ([]models.EmailTemplateListItem, error) {
	var args []any
	whereClause := ""

	if search != "" {
		whereClause = "WHERE slug LIKE ?"
		args = append(args, "%"+search+"%")
	}

	offset := (page - 1) * count

	query := fmt.Sprintf(`
		SELECT id, slug
		FROM email_templates
		%s
		ORDER BY slug
		LIMIT ? OFFSET ?
	`, whereClause)

	args = append(args, count, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query email templates: %w", err)
	}
	defer rows.Close()

	templates := []models.EmailTemplateListItem{}
	for rows.Next() {
		var template models.EmailTemplateListItem
		if err := rows.Scan(&template.ID, &template.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan email template: %w", err)
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return templates, nil
}

// Update changes the non-empty fields of an email template
func (r *emailTemplateRepository) Update(ctx context.Context, id int, template *models.EmailTemplate) error {
	setClauses := []string{}
	args := []any{}

	if template.Slug != "" {
		setClauses = append(setClauses, "slug = ?")
		args = append(args, template.Slug)
	}
	if template.SubjectTemplate != "" {
		setClauses = append(setClauses, "subject_template = ?")
		args = append(args, template.SubjectTemplate)
	}
	if template.BodyTemplate != "" {
		setClauses = append(setClauses, "body_template = ?")
		args = append(args, template.BodyTemplate)
	}

	if len(setClauses) == 0 {
		return nil // Nothing to update
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE email_templates
		SET %s, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, strings.Join(setClauses, ", "))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.ErrSlugTaken
		}
		return fmt.Errorf("failed to update email template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("email template: %w", models.ErrNotFound)
	}

	return nil
}

// Delete deletes an email template by ID
func (r *emailTemplateRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM email_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete email template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("email template: %w", models.ErrNotFound)
	}

	return nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
