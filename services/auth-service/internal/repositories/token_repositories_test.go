package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aura-academy/portal/services/auth-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTokenRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSetupTokenRepository(db)

	adminID := 1
	expires := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO setup_tokens \(token, created_by, expires_at\)`).
		WithArgs("setup-code", &adminID, expires).
		WillReturnResult(sqlmock.NewResult(9, 1))

	tok := &models.SetupToken{Token: "setup-code", CreatedBy: &adminID, ExpiresAt: expires}
	require.NoError(t, repo.Create(context.Background(), tok))
	assert.Equal(t, 9, tok.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetupTokenRepository_Redeem(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		setupMock   func(sqlmock.Sqlmock)
		expectedErr error
		expectError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE setup_tokens SET used_by = \?, used_at = \? WHERE token = \? AND used_at IS NULL AND expires_at > \?`).
					WithArgs(5, now, "setup-code", now).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "used, expired or unknown",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE setup_tokens`).
					WithArgs(5, now, "setup-code", now).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedErr: models.ErrInvalidToken,
			expectError: true,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE setup_tokens`).
					WillReturnError(errors.New("database error"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			err = NewSetupTokenRepository(db).Redeem(context.Background(), "setup-code", 5, now)

			if tt.expectError {
				assert.Error(t, err)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPasswordResetRepository_Consume(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	selectQuery := `SELECT id, user_id FROM password_resets WHERE token = \? AND used_at IS NULL AND expires_at > \? FOR UPDATE`

	tests := []struct {
		name           string
		setupMock      func(sqlmock.Sqlmock)
		expectedUserID int
		expectedErr    error
		expectError    bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(selectQuery).
					WithArgs("reset-code", now).
					WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(3, 12))
				mock.ExpectExec(`UPDATE password_resets SET used_at = \? WHERE id = \?`).
					WithArgs(now, 3).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expectedUserID: 12,
		},
		{
			name: "invalid code",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(selectQuery).
					WithArgs("reset-code", now).
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			expectedErr: models.ErrInvalidToken,
			expectError: true,
		},
		{
			name: "update fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(selectQuery).
					WithArgs("reset-code", now).
					WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(3, 12))
				mock.ExpectExec(`UPDATE password_resets`).
					WillReturnError(errors.New("database error"))
				mock.ExpectRollback()
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			userID, err := NewPasswordResetRepository(db).Consume(context.Background(), "reset-code", now)

			if tt.expectError {
				assert.Error(t, err)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedUserID, userID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPasswordResetRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expires := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO password_resets \(user_id, token, expires_at\)`).
		WithArgs(12, "reset-code", expires).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewPasswordResetRepository(db).Create(context.Background(), &models.PasswordReset{UserID: 12, Token: "reset-code", ExpiresAt: expires})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewsletterRepository_Subscribe(t *testing.T) {
	tests := []struct {
		name        string
		affected    int64
		expectedNew bool
	}{
		{name: "new address", affected: 1, expectedNew: true},
		{name: "already subscribed", affected: 0, expectedNew: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`INSERT IGNORE INTO newsletter_subscribers \(email, source\) VALUES \(\?, \?\)`).
				WithArgs("ada@example.com", "footer").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			created, err := NewNewsletterRepository(db).Subscribe(context.Background(), "ada@example.com", "footer")

			require.NoError(t, err)
			assert.Equal(t, tt.expectedNew, created)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
