package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contentColumns = []string{"id", "day_number", "title", "description", "content", "video_url", "is_published", "updated_by", "updated_at"}

// setupCourseContentTestRepository creates a course content repository with a mock database
func setupCourseContentTestRepository(t *testing.T) (*courseContentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewCourseContentRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewCourseContentRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewCourseContentRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestCourseContentRepository_GetLatestByDay(t *testing.T) {
	updatedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		publishedOnly bool
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		expectedTitle string
	}{
		{
			name:          "success published only",
			publishedOnly: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(contentColumns).
					AddRow(3, 2, "Day Two", "desc", []byte(`{"sections":[]}`), "https://v/2", true, 9, updatedAt)
				mock.ExpectQuery(regexp.QuoteMeta(`FROM course_content WHERE day_number = ? AND is_published = TRUE ORDER BY updated_at DESC, id DESC LIMIT 1`)).
					WithArgs(2).
					WillReturnRows(rows)
			},
			expectedTitle: "Day Two",
		},
		{
			name:          "success any row for admins",
			publishedOnly: false,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(contentColumns).
					AddRow(4, 2, "Draft", nil, nil, nil, false, nil, updatedAt)
				mock.ExpectQuery(regexp.QuoteMeta(`FROM course_content WHERE day_number = ? ORDER BY updated_at DESC`)).
					WithArgs(2).
					WillReturnRows(rows)
			},
			expectedTitle: "Draft",
		},
		{
			name:          "not found",
			publishedOnly: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM course_content WHERE day_number = ?`)).
					WithArgs(2).
					WillReturnRows(sqlmock.NewRows(contentColumns))
			},
			expectedError: models.ErrNotFound,
		},
		{
			name:          "database error",
			publishedOnly: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM course_content WHERE day_number = ?`)).
					WithArgs(2).
					WillReturnError(errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseContentTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			result, err := repo.GetLatestByDay(context.Background(), 2, tt.publishedOnly)

			if tt.expectedError != nil {
				require.Error(t, err)
				if errors.Is(tt.expectedError, models.ErrNotFound) {
					assert.ErrorIs(t, err, models.ErrNotFound)
				}
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedTitle, result.Title)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseContentRepository_GetLatestByDay_ScansNullableColumns(t *testing.T) {
	repo, mock, cleanup := setupCourseContentTestRepository(t)
	defer cleanup()

	updatedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(contentColumns).
		AddRow(3, 2, "Day Two", "desc", []byte(`[{"type":"text"}]`), "https://v/2", true, 9, updatedAt)
	mock.ExpectQuery(`FROM course_content`).WithArgs(2).WillReturnRows(rows)

	result, err := repo.GetLatestByDay(context.Background(), 2, true)

	require.NoError(t, err)
	assert.Equal(t, 3, result.ID)
	assert.Equal(t, "desc", result.Description)
	assert.JSONEq(t, `[{"type":"text"}]`, string(result.Content))
	require.NotNil(t, result.VideoURL)
	assert.Equal(t, "https://v/2", *result.VideoURL)
	require.NotNil(t, result.UpdatedBy)
	assert.Equal(t, 9, *result.UpdatedBy)
	assert.Equal(t, updatedAt, result.UpdatedAt)
}

func TestCourseContentRepository_SaveWithVersion(t *testing.T) {
	userID := 9
	row := func() *models.CourseContent {
		return &models.CourseContent{
			ID:          5,
			DayNumber:   1,
			Title:       "Day One",
			Description: "Start here",
			Content:     []byte(`{"sections":[]}`),
			IsPublished: true,
			UpdatedBy:   &userID,
			UpdatedAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		}
	}

	tests := []struct {
		name            string
		setupMock       func(sqlmock.Sqlmock)
		expectedVersion int
		expectedError   error
	}{
		{
			name: "success creates version max plus one",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM course_content WHERE id = ? FOR UPDATE`)).
					WithArgs(5).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE course_content SET day_number = ?`)).
					WithArgs(1, "Day One", "Start here", sqlmock.AnyArg(), sqlmock.AnyArg(), true, sqlmock.AnyArg(), sqlmock.AnyArg(), 5).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(version_number), 0) FROM content_versions WHERE content_id = ?`)).
					WithArgs(5).
					WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(3))
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO content_versions`)).
					WithArgs(5, 4, "Day One", "Start here", "tweak", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(12, 1))
				mock.ExpectCommit()
			},
			expectedVersion: 4,
		},
		{
			name: "content not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM course_content WHERE id = ? FOR UPDATE`)).
					WithArgs(5).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
				mock.ExpectRollback()
			},
			expectedError: models.ErrNotFound,
		},
		{
			name: "version insert fails rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
					WithArgs(5).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE course_content`)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(version_number), 0)`)).
					WithArgs(5).
					WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(3))
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO content_versions`)).
					WillReturnError(errors.New("duplicate entry"))
				mock.ExpectRollback()
			},
			expectedError: errors.New("failed to create content version"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseContentTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			version, err := repo.SaveWithVersion(context.Background(), row(), "tweak")

			if tt.expectedError != nil {
				require.Error(t, err)
				if errors.Is(tt.expectedError, models.ErrNotFound) {
					assert.ErrorIs(t, err, models.ErrNotFound)
				} else {
					assert.Contains(t, err.Error(), tt.expectedError.Error())
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedVersion, version)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseContentRepository_CreateWithVersion(t *testing.T) {
	repo, mock, cleanup := setupCourseContentTestRepository(t)
	defer cleanup()

	c := &models.CourseContent{
		DayNumber: 3,
		Title:     "Day Three",
		Content:   []byte(`{"sections":[]}`),
		UpdatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO course_content`)).
		WithArgs(3, "Day Three", "", sqlmock.AnyArg(), sqlmock.AnyArg(), false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(version_number), 0) FROM content_versions`)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO content_versions`)).
		WithArgs(9, 1, "Day Three", "", "initial", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	version, err := repo.CreateWithVersion(context.Background(), c, "initial")

	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, 9, c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseContentRepository_ListTitles(t *testing.T) {
	repo, mock, cleanup := setupCourseContentTestRepository(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"day_number", "title"}).
		AddRow(1, "Newest day one").
		AddRow(1, "Older day one").
		AddRow(2, "Day two")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT day_number, title FROM course_content WHERE is_published = TRUE`)).
		WillReturnRows(rows)

	titles, err := repo.ListTitles(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "Newest day one", 2: "Day two"}, titles)
}

func TestCourseContentRepository_List(t *testing.T) {
	repo, mock, cleanup := setupCourseContentTestRepository(t)
	defer cleanup()

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "day_number", "title", "is_published", "version", "updated_at"}).
		AddRow(1, 1, "Day One", true, 3, now).
		AddRow(2, 2, "Day Two", false, 0, now)
	mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN content_versions v ON v.content_id = c.id`)).
		WillReturnRows(rows)

	items, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].VersionNumber)
	assert.False(t, items[1].IsPublished)
}

func TestCourseContentRepository_Delete(t *testing.T) {
	tests := []struct {
		name          string
		rowsAffected  int64
		expectedError error
	}{
		{name: "success", rowsAffected: 1},
		{name: "not found", rowsAffected: 0, expectedError: models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseContentTestRepository(t)
			defer cleanup()

			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM course_content WHERE id = ?`)).
				WithArgs(7).
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))

			err := repo.Delete(context.Background(), 7)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
