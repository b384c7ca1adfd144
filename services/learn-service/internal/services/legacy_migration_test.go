package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aura-academy/portal/services/learn-service/internal/content"
	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLegacyMigrator_Run(t *testing.T) {
	textSection := []models.LegacyDaySection{
		{ID: 1, DayNumber: 1, SectionNumber: 1, Title: "Opening", Content: json.RawMessage(`[{"type":"text","text":"Breathe in"}]`)},
	}
	blockID, blockType, blockText := 7, "text", "Ground your feet"
	untitledBlocks := []models.LegacyLessonBlock{
		{SectionID: 11, SectionNumber: 1, BlockID: &blockID, BlockType: &blockType, BlockContent: &blockText},
	}
	untitledInnerSection := []models.LegacyDaySection{
		{ID: 3, DayNumber: 3, SectionNumber: 1, Content: json.RawMessage(`{"sections":[{"title":"","blocks":[{"type":"text","text":"Rest"}]}]}`)},
	}
	videoWithoutURL := []models.LegacyDaySection{
		{ID: 2, DayNumber: 1, SectionNumber: 1, Title: "Watch", Content: json.RawMessage(`[{"type":"video","caption":"Soon"}]`)},
	}

	tests := []struct {
		name                string
		legacy              *mockLegacyContentRepository
		contentRepo         *mockCourseContentRepository
		dryRun              bool
		expectedMigrated    []int
		expectedUnpublished []int
		expectedSkipped     []int
		expectedSaves       int
		expectedPublished   bool
		expectedTitle       string
		expectedErr         bool
	}{
		{
			name:              "migrates a day without canonical content",
			legacy:            &mockLegacyContentRepository{days: []int{1}, sections: textSection},
			contentRepo:       &mockCourseContentRepository{},
			expectedMigrated:  []int{1},
			expectedSaves:     1,
			expectedPublished: true,
			expectedTitle:     "Opening",
		},
		{
			name:              "untitled lesson sections get a day title",
			legacy:            &mockLegacyContentRepository{days: []int{3, 4}, blocks: untitledBlocks},
			contentRepo:       &mockCourseContentRepository{},
			expectedMigrated:  []int{3, 4},
			expectedSaves:     2,
			expectedPublished: true,
			expectedTitle:     "Day 4 part 1",
		},
		{
			name:              "blank first section title falls back to the day",
			legacy:            &mockLegacyContentRepository{days: []int{3}, sections: untitledInnerSection},
			contentRepo:       &mockCourseContentRepository{},
			expectedMigrated:  []int{3},
			expectedSaves:     1,
			expectedPublished: true,
			expectedTitle:     "Day 3",
		},
		{
			name:            "skips days that already have canonical content",
			legacy:          &mockLegacyContentRepository{days: []int{1}, sections: textSection},
			contentRepo:     &mockCourseContentRepository{row: publishedRow()},
			expectedSkipped: []int{1},
		},
		{
			name:            "skips days outside the course",
			legacy:          &mockLegacyContentRepository{days: []int{9}, sections: textSection},
			contentRepo:     &mockCourseContentRepository{},
			expectedSkipped: []int{9},
		},
		{
			name:            "skips empty legacy days",
			legacy:          &mockLegacyContentRepository{days: []int{2}},
			contentRepo:     &mockCourseContentRepository{},
			expectedSkipped: []int{2},
		},
		{
			name:                "stores unpublishable content as a draft",
			legacy:              &mockLegacyContentRepository{days: []int{1}, sections: videoWithoutURL},
			contentRepo:         &mockCourseContentRepository{},
			expectedUnpublished: []int{1},
			expectedSaves:       1,
		},
		{
			name:             "dry run writes nothing",
			legacy:           &mockLegacyContentRepository{days: []int{1}, sections: textSection},
			contentRepo:      &mockCourseContentRepository{},
			dryRun:           true,
			expectedMigrated: []int{1},
		},
		{
			name:        "legacy read error",
			legacy:      &mockLegacyContentRepository{err: errors.New("database error")},
			contentRepo: &mockCourseContentRepository{},
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := newTestAdminContentService(tt.contentRepo, &mockContentVersionRepository{}, nil)
			migrator := NewLegacyMigrator(tt.legacy, admin, zap.NewNop())

			report, err := migrator.Run(context.Background(), tt.dryRun)

			if tt.expectedErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedMigrated, report.Migrated)
			assert.Equal(t, tt.expectedUnpublished, report.Unpublished)
			assert.Equal(t, tt.expectedSkipped, report.Skipped)
			assert.Equal(t, tt.expectedSaves, tt.contentRepo.saveCalls)
			if tt.expectedSaves > 0 {
				saved := tt.contentRepo.saved
				assert.Equal(t, tt.expectedPublished, saved.IsPublished)
				assert.Nil(t, saved.UpdatedBy)
				assert.Equal(t, content.ShapeCanonical, content.DetectShape(saved.Content))
				if tt.expectedTitle != "" {
					assert.Equal(t, tt.expectedTitle, saved.Title)
				}
			}
		})
	}
}

func TestLegacyToContent_UntitledSections(t *testing.T) {
	blockID, blockType, blockText := 1, "text", "Notice the breath"
	blocks := []models.LegacyLessonBlock{
		{SectionID: 20, SectionNumber: 1, SectionTitle: "Arrive", BlockID: &blockID, BlockType: &blockType, BlockContent: &blockText},
		{SectionID: 21, SectionNumber: 2, SectionTitle: "  "},
	}
	sections := []models.LegacyDaySection{
		{ID: 1, DayNumber: 6, SectionNumber: 2, Content: json.RawMessage(`"Let go"`)},
	}

	fromBlocks := LegacyToContent(6, nil, blocks)
	require.Len(t, fromBlocks.Sections, 2)
	assert.Equal(t, "Arrive", fromBlocks.Sections[0].Title)
	assert.Equal(t, "Day 6 part 2", fromBlocks.Sections[1].Title)

	fromSections := LegacyToContent(6, sections, nil)
	require.Len(t, fromSections.Sections, 1)
	assert.Equal(t, "Day 6 part 2", fromSections.Sections[0].Title)
}
