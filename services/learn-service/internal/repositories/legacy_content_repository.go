package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
)

// legacyContentRepository reads the pre-canonical lesson tables.
// It never writes; the tables are kept only until they are migrated.
type legacyContentRepository struct {
	db *sql.DB
}

// NewLegacyContentRepository creates a new legacy content repository
func NewLegacyContentRepository(db *sql.DB) *legacyContentRepository {
	return &legacyContentRepository{
		db: db,
	}
}

// GetDaySections returns the day_sections rows of a day in section order
func (r *legacyContentRepository) GetDaySections(ctx context.Context, day int) ([]models.LegacyDaySection, error) {
	query := `
		SELECT id, day_number, section_number, title, content
		FROM day_sections
		WHERE day_number = ?
		ORDER BY section_number, id
	`

	rows, err := r.db.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query day sections: %w", err)
	}
	defer rows.Close()

	sections := make([]models.LegacyDaySection, 0)
	for rows.Next() {
		var (
			s       models.LegacyDaySection
			title   sql.NullString
			content []byte
		)
		if err := rows.Scan(&s.ID, &s.DayNumber, &s.SectionNumber, &title, &content); err != nil {
			return nil, fmt.Errorf("failed to scan day section: %w", err)
		}
		s.Title = title.String
		s.Content = content
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day sections: %w", err)
	}
	return sections, nil
}

// GetLessonBlocks returns lesson_sections rows of a day joined with their lesson_blocks.
// Sections without blocks appear once with nil block fields.
func (r *legacyContentRepository) GetLessonBlocks(ctx context.Context, day int) ([]models.LegacyLessonBlock, error) {
	query := `
		SELECT s.id, s.section_number, s.title, b.id, b.block_type, b.content, b.url
		FROM lesson_sections s
		LEFT JOIN lesson_blocks b ON b.section_id = s.id
		WHERE s.day_number = ?
		ORDER BY s.section_number, s.id, b.position, b.id
	`

	rows, err := r.db.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query lesson blocks: %w", err)
	}
	defer rows.Close()

	blocks := make([]models.LegacyLessonBlock, 0)
	for rows.Next() {
		var (
			b            models.LegacyLessonBlock
			title        sql.NullString
			blockID      sql.NullInt64
			blockType    sql.NullString
			blockContent sql.NullString
			blockURL     sql.NullString
		)
		if err := rows.Scan(&b.SectionID, &b.SectionNumber, &title, &blockID, &blockType, &blockContent, &blockURL); err != nil {
			return nil, fmt.Errorf("failed to scan lesson block: %w", err)
		}
		b.SectionTitle = title.String
		if blockID.Valid {
			id := int(blockID.Int64)
			b.BlockID = &id
		}
		b.BlockType = nullStringPtr(blockType)
		b.BlockContent = nullStringPtr(blockContent)
		b.BlockURL = nullStringPtr(blockURL)
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lesson blocks: %w", err)
	}
	return blocks, nil
}

// ListDays returns every day number that has legacy content in either table
func (r *legacyContentRepository) ListDays(ctx context.Context) ([]int, error) {
	query := `
		SELECT day_number FROM day_sections
		UNION
		SELECT day_number FROM lesson_sections
		ORDER BY day_number
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query legacy days: %w", err)
	}
	defer rows.Close()

	days := make([]int, 0)
	for rows.Next() {
		var day int
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan legacy day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legacy days: %w", err)
	}
	return days, nil
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
