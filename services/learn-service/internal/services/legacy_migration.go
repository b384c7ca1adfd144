package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"go.uber.org/zap"
)

// LegacyContentStore reads every day held by the legacy lesson tables
type LegacyContentStore interface {
	LegacyContentRepository
	ListDays(ctx context.Context) ([]int, error)
}

// ContentCreator is the part of the admin content service used to write migrated days
type ContentCreator interface {
	GetDay(ctx context.Context, day int) (*models.DayContentResponse, error)
	Create(ctx context.Context, userID int, req *models.SaveContentRequest) (*models.SaveContentResponse, error)
}

// MigrationReport lists what a legacy migration run did per day
type MigrationReport struct {
	Migrated    []int
	Unpublished []int
	Skipped     []int
}

type legacyMigrator struct {
	legacy  LegacyContentStore
	creator ContentCreator
	logger  *zap.Logger
}

// NewLegacyMigrator creates a migrator copying legacy days into course_content
func NewLegacyMigrator(legacy LegacyContentStore, creator ContentCreator, logger *zap.Logger) *legacyMigrator {
	return &legacyMigrator{
		legacy:  legacy,
		creator: creator,
		logger:  logger,
	}
}

// Run migrates every legacy day that has no canonical row yet.
// Days whose content cannot be published are stored as drafts.
// With dryRun set nothing is written and the report names the days that would be migrated.
func (m *legacyMigrator) Run(ctx context.Context, dryRun bool) (*MigrationReport, error) {
	days, err := m.legacy.ListDays(ctx)
	if err != nil {
		return nil, err
	}

	report := &MigrationReport{}
	for _, day := range days {
		existing, err := m.creator.GetDay(ctx, day)
		if errors.Is(err, models.ErrInvalidDay) {
			m.logger.Warn("skipping legacy day outside the course", zap.Int("day", day))
			report.Skipped = append(report.Skipped, day)
			continue
		}
		if err != nil {
			return report, fmt.Errorf("day %d: %w", day, err)
		}
		if !existing.Creatable {
			report.Skipped = append(report.Skipped, day)
			continue
		}

		sections, err := m.legacy.GetDaySections(ctx, day)
		if err != nil {
			return report, fmt.Errorf("day %d: %w", day, err)
		}
		blocks, err := m.legacy.GetLessonBlocks(ctx, day)
		if err != nil {
			return report, fmt.Errorf("day %d: %w", day, err)
		}
		c := LegacyToContent(day, sections, blocks)
		if len(c.Sections) == 0 {
			report.Skipped = append(report.Skipped, day)
			continue
		}

		if dryRun {
			report.Migrated = append(report.Migrated, day)
			continue
		}

		raw, err := json.Marshal(c)
		if err != nil {
			return report, fmt.Errorf("failed to encode day %d: %w", day, err)
		}
		title := strings.TrimSpace(c.Sections[0].Title)
		if title == "" {
			title = fmt.Sprintf("Day %d", day)
		}
		req := &models.SaveContentRequest{
			DayNumber:   day,
			Title:       title,
			Content:     raw,
			IsPublished: true,
			ChangeNote:  "migrated from legacy tables",
		}

		_, err = m.creator.Create(ctx, 0, req)
		if errors.Is(err, models.ErrNotPublishable) {
			m.logger.Warn("legacy day stored as draft", zap.Int("day", day), zap.Error(err))
			req.IsPublished = false
			if _, err = m.creator.Create(ctx, 0, req); err != nil {
				return report, fmt.Errorf("day %d: %w", day, err)
			}
			report.Unpublished = append(report.Unpublished, day)
			continue
		}
		if err != nil {
			return report, fmt.Errorf("day %d: %w", day, err)
		}
		report.Migrated = append(report.Migrated, day)
	}

	m.logger.Info("legacy migration finished",
		zap.Ints("migrated", report.Migrated),
		zap.Ints("unpublished", report.Unpublished),
		zap.Ints("skipped", report.Skipped),
		zap.Bool("dryRun", dryRun),
	)
	return report, nil
}
