package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aura-academy/portal/services/auth-service/internal/models"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupUserTestRepository creates a user repository with a mock database
func setupUserTestRepository(t *testing.T) (*userRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewUserRepository(db, zap.NewNop())

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewUserRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewUserRepository(db, zap.NewNop())

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedID    int
		expectedError error
		expectError   bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("ada@example.com", "Ada", "hash", models.RoleStudent).
					WillReturnResult(sqlmock.NewResult(42, 1))
			},
			expectedID: 42,
		},
		{
			name: "duplicate email",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("ada@example.com", "Ada", "hash", models.RoleStudent).
					WillReturnError(&mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"})
			},
			expectedError: models.ErrEmailTaken,
			expectError:   true,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WillReturnError(errors.New("database error"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			user := &models.User{Email: "ada@example.com", FullName: "Ada", PasswordHash: "hash", Role: models.RoleStudent}
			err := repo.Create(context.Background(), user)

			if tt.expectError {
				assert.Error(t, err)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, user.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	createdAt := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	columns := []string{"id", "email", "full_name", "password_hash", "role", "created_at"}

	tests := []struct {
		name         string
		setupMock    func(sqlmock.Sqlmock)
		expectedUser *models.User
		notFound     bool
		expectError  bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, email, full_name, password_hash, role, created_at FROM users WHERE email = \? LIMIT 1`).
					WithArgs("ada@example.com").
					WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "ada@example.com", "Ada", "hash", 2, createdAt))
			},
			expectedUser: &models.User{ID: 1, Email: "ada@example.com", FullName: "Ada", PasswordHash: "hash", Role: models.RoleAdmin, CreatedAt: createdAt},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, email`).
					WithArgs("ada@example.com").
					WillReturnError(sql.ErrNoRows)
			},
			notFound:    true,
			expectError: true,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, email`).
					WillReturnError(errors.New("database error"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			user, err := repo.GetByEmail(context.Background(), "ada@example.com")

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, user)
				assert.Equal(t, tt.notFound, errors.Is(err, models.ErrNotFound))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedUser, user)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT id, email, full_name, password_hash, role, created_at FROM users WHERE id = \? LIMIT 1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name", "password_hash", "role", "created_at"}).
			AddRow(7, "b@example.com", "Bea", "hash", 1, time.Now()))

	user, err := repo.GetByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT EXISTS\(SELECT \* FROM users WHERE email = \?\)`).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "ada@example.com")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateRole(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(sqlmock.Sqlmock)
		notFound    bool
		expectError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users SET role = \? WHERE id = \?`).
					WithArgs(models.RoleAdmin, 3).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "unchanged value",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users SET role`).
					WithArgs(models.RoleAdmin, 3).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT EXISTS\(SELECT \* FROM users WHERE id = \?\)`).
					WithArgs(3).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
		},
		{
			name: "missing user",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users SET role`).
					WithArgs(models.RoleAdmin, 3).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs(3).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			notFound:    true,
			expectError: true,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users SET role`).
					WillReturnError(errors.New("database error"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			err := repo.UpdateRole(context.Background(), 3, models.RoleAdmin)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, tt.notFound, errors.Is(err, models.ErrNotFound))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE users SET password_hash = \? WHERE id = \?`).
		WithArgs("new-hash", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePasswordHash(context.Background(), 3, "new-hash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	admin := models.RoleAdmin
	columns := []string{"id", "email", "full_name", "role", "created_at"}

	tests := []struct {
		name      string
		role      *models.Role
		search    string
		setupMock func(sqlmock.Sqlmock)
		expected  int
	}{
		{
			name: "no filters",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, email, full_name, role, created_at FROM users ORDER BY id LIMIT \? OFFSET \?`).
					WithArgs(10, 10).
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow(11, "a@example.com", "A", 1, time.Now()).
						AddRow(12, "b@example.com", "B", 2, time.Now()))
			},
			expected: 2,
		},
		{
			name:   "role and search",
			role:   &admin,
			search: " bea ",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users WHERE role = \? AND \(email LIKE \? OR full_name LIKE \?\) ORDER BY id`).
					WithArgs(models.RoleAdmin, "%bea%", "%bea%", 10, 10).
					WillReturnRows(sqlmock.NewRows(columns))
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			users, err := repo.List(context.Background(), 2, 10, tt.role, tt.search)

			require.NoError(t, err)
			assert.Len(t, users, tt.expected)
			assert.NotNil(t, users)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_CountAdmins(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = \?`).
		WithArgs(models.RoleAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountAdmins(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
