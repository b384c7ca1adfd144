package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyContentRepository_GetDaySections(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewLegacyContentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "day_number", "section_number", "title", "content"}).
		AddRow(1, 2, 1, "Breath", []byte(`[{"text":"in"}]`)).
		AddRow(2, 2, 2, nil, []byte(`"out"`))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM day_sections WHERE day_number = ? ORDER BY section_number, id`)).
		WithArgs(2).
		WillReturnRows(rows)

	sections, err := repo.GetDaySections(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "Breath", sections[0].Title)
	assert.Equal(t, "", sections[1].Title)
	assert.Equal(t, `"out"`, string(sections[1].Content))
}

func TestLegacyContentRepository_GetLessonBlocks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewLegacyContentRepository(db)

	rows := sqlmock.NewRows([]string{"s.id", "s.section_number", "s.title", "b.id", "b.block_type", "b.content", "b.url"}).
		AddRow(10, 1, "Intro", 100, "video", "Watch", "https://v/1").
		AddRow(11, 2, "Empty", nil, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN lesson_blocks b ON b.section_id = s.id`)).
		WithArgs(1).
		WillReturnRows(rows)

	blocks, err := repo.GetLessonBlocks(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, blocks, 2)
	require.NotNil(t, blocks[0].BlockID)
	assert.Equal(t, 100, *blocks[0].BlockID)
	assert.Equal(t, "https://v/1", *blocks[0].BlockURL)
	assert.Nil(t, blocks[1].BlockID)
	assert.Nil(t, blocks[1].BlockType)
}

func TestLegacyContentRepository_ListDays(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewLegacyContentRepository(db)

	mock.ExpectQuery(`UNION`).WillReturnError(errors.New("table missing"))

	days, err := repo.ListDays(context.Background())

	assert.Error(t, err)
	assert.Nil(t, days)
}
