package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessonCompletionRepository_Exists(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedValue bool
	}{
		{
			name: "completed",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM lesson_completions WHERE user_id = ? AND day_number = ?)`)).
					WithArgs(1, 2).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			expectedValue: true,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
					WithArgs(1, 2).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			repo := NewLessonCompletionRepository(db)

			tt.setupMock(mock)

			result, err := repo.Exists(context.Background(), 1, 2)

			if tt.expectedError {
				assert.Error(t, err)
				assert.False(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedValue, result)
			}
		})
	}
}

func TestLessonCompletionRepository_CreateDeleteList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewLessonCompletionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO lesson_completions (user_id, day_number, completed_at) VALUES (?, ?, ?)`)).
		WithArgs(1, 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM lesson_completions WHERE user_id = ? AND day_number = ?`)).
		WithArgs(1, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT day_number FROM lesson_completions WHERE user_id = ? ORDER BY day_number`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"day_number"}).AddRow(1).AddRow(2))

	require.NoError(t, repo.Create(context.Background(), 1, 2, time.Now()))
	assert.Error(t, repo.Delete(context.Background(), 1, 3))

	days, err := repo.ListDays(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, days)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM enrollments WHERE user_id = ?`)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "name", "enrolled_at"}))

	_, err = repo.Get(context.Background(), 4)

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEnrollmentRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`ON DUPLICATE KEY UPDATE email = VALUES(email), name = VALUES(name)`)).
		WithArgs(4, "sam@example.com", "Sam", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Upsert(context.Background(), &models.Enrollment{UserID: 4, Email: "sam@example.com", Name: "Sam", EnrolledAt: time.Now()})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_ListUnlockingOn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"user_id", "email", "name", "day"}).
		AddRow(4, "sam@example.com", "Sam", 3)
	mock.ExpectQuery(regexp.QuoteMeta(`DATEDIFF(?, DATE(enrolled_at)) BETWEEN 1 AND ?`)).
		WithArgs("2026-03-10", "2026-03-10", 6).
		WillReturnRows(rows)

	unlocks, err := repo.ListUnlockingOn(context.Background(), time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), 7)

	require.NoError(t, err)
	assert.Equal(t, []models.DripUnlock{{UserID: 4, Email: "sam@example.com", Name: "Sam", DayNumber: 3}}, unlocks)
}

func TestCertificateRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewCertificateRepository(db)

	issued := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	columns := []string{"id", "user_id", "code", "recipient_name", "course_title", "issued_at"}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO certificates (user_id, code, recipient_name, course_title, issued_at)`)).
		WithArgs(4, "AURA-1234", "Sam Lee", "Aura Empowerment Academy", issued).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM certificates WHERE code = ?`)).
		WithArgs("AURA-1234").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(2, 4, "AURA-1234", "Sam Lee", "Aura Empowerment Academy", issued))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM certificates WHERE user_id = ?`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(columns))

	c := &models.Certificate{UserID: 4, Code: "AURA-1234", RecipientName: "Sam Lee", CourseTitle: "Aura Empowerment Academy", IssuedAt: issued}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, 2, c.ID)

	found, err := repo.GetByCode(context.Background(), "AURA-1234")
	require.NoError(t, err)
	assert.Equal(t, *c, *found)

	_, err = repo.GetByUserID(context.Background(), 5)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReviewRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewReviewRepository(db)

	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "display_name", "rating", "body", "is_published", "created_at", "ir_id", "responder_id", "ir_body", "ir_created_at"}).
		AddRow(2, 4, "Sam", 5, "Loved it", true, now, 8, 1, "Thank you!", now).
		AddRow(1, 5, "Ana", 4, "Great", true, now, nil, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE r.is_published = TRUE ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?`)).
		WithArgs(20, 0).
		WillReturnRows(rows)

	reviews, err := repo.List(context.Background(), true, 20, 0)

	require.NoError(t, err)
	require.Len(t, reviews, 2)
	require.NotNil(t, reviews[0].Response)
	assert.Equal(t, "Thank you!", reviews[0].Response.Body)
	assert.Equal(t, 2, reviews[0].Response.ReviewID)
	assert.Nil(t, reviews[1].Response)
}

func TestReviewRepository_SetPublished_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewReviewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE reviews SET is_published = ? WHERE id = ?`)).
		WithArgs(true, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SetPublished(context.Background(), 99, true)

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReviewRepository_CreateResponse(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewReviewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO instructor_responses (review_id, responder_id, body, created_at)`)).
		WithArgs(2, 1, "Thanks", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(8, 1))

	resp := &models.InstructorResponse{ReviewID: 2, ResponderID: 1, Body: "Thanks", CreatedAt: time.Now()}
	require.NoError(t, repo.CreateResponse(context.Background(), resp))
	assert.Equal(t, 8, resp.ID)
}

func TestActivityLogRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewActivityLogRepository(db)

	userID := 4
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO activity_logs (user_id, action, metadata, ip_address, created_at)`)).
		WithArgs(4, "video_play", []byte(`{"videoId":"v1"}`), "10.0.0.1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM activity_logs WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)).
		WithArgs(4, 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action", "metadata", "ip_address", "created_at"}).
			AddRow(3, 4, "video_play", []byte(`{"videoId":"v1"}`), "10.0.0.1", time.Now()).
			AddRow(2, 4, "login", nil, nil, time.Now()))

	a := &models.ActivityLog{UserID: 4, Action: "video_play", Metadata: []byte(`{"videoId":"v1"}`), IPAddress: "10.0.0.1", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, 3, a.ID)

	logs, err := repo.List(context.Background(), &userID, 50, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.JSONEq(t, `{"videoId":"v1"}`, string(logs[0].Metadata))
	assert.Nil(t, logs[1].Metadata)
	assert.NoError(t, mock.ExpectationsWereMet())
}
