package services

import (
	"context"
	"time"

	"github.com/aura-academy/portal/services/auth-service/internal/models"
)

// mockUserRepository is an in-memory UserRepository
type mockUserRepository struct {
	users        map[int]*models.User
	nextID       int
	err          error
	createErr    error
	updateErr    error
	listed       []models.UserListItem
	lastListRole *models.Role
	admins       int
}

func newMockUserRepository(users ...*models.User) *mockUserRepository {
	m := &mockUserRepository{users: map[int]*models.User{}, nextID: 100}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) UpdateFullName(ctx context.Context, userID int, fullName string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	u, ok := m.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.FullName = fullName
	return nil
}

func (m *mockUserRepository) UpdatePasswordHash(ctx context.Context, userID int, passwordHash string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	u, ok := m.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, userID int, role models.Role) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	u, ok := m.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.Role = role
	return nil
}

func (m *mockUserRepository) List(ctx context.Context, page, count int, role *models.Role, search string) ([]models.UserListItem, error) {
	m.lastListRole = role
	if m.err != nil {
		return nil, m.err
	}
	return m.listed, nil
}

func (m *mockUserRepository) CountAdmins(ctx context.Context) (int, error) {
	return m.admins, m.err
}

// mockUserTokenRepository is an in-memory UserTokenRepository
type mockUserTokenRepository struct {
	tokens        map[string]int
	createErr     error
	deletedUsers  []int
	deletedTokens []string
	expiredBefore time.Time
	expiredCount  int
}

func newMockUserTokenRepository() *mockUserTokenRepository {
	return &mockUserTokenRepository{tokens: map[string]int{}}
}

func (m *mockUserTokenRepository) Create(ctx context.Context, userToken *models.UserToken) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.tokens[userToken.Token] = userToken.UserID
	return nil
}

func (m *mockUserTokenRepository) GetByToken(ctx context.Context, token string) (*models.UserToken, error) {
	userID, ok := m.tokens[token]
	if !ok {
		return nil, models.ErrInvalidToken
	}
	return &models.UserToken{UserID: userID, Token: token}, nil
}

func (m *mockUserTokenRepository) UpdateToken(ctx context.Context, oldToken, newToken string, userID int) error {
	if owner, ok := m.tokens[oldToken]; !ok || owner != userID {
		return models.ErrInvalidToken
	}
	delete(m.tokens, oldToken)
	m.tokens[newToken] = userID
	return nil
}

func (m *mockUserTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	m.deletedTokens = append(m.deletedTokens, token)
	delete(m.tokens, token)
	return nil
}

func (m *mockUserTokenRepository) DeleteByUserID(ctx context.Context, userID int) error {
	m.deletedUsers = append(m.deletedUsers, userID)
	for token, owner := range m.tokens {
		if owner == userID {
			delete(m.tokens, token)
		}
	}
	return nil
}

func (m *mockUserTokenRepository) DeleteExpiredTokens(ctx context.Context, expiryTime time.Time) (int, error) {
	m.expiredBefore = expiryTime
	return m.expiredCount, nil
}

// mockEnroller records enrollments
type mockEnroller struct {
	err      error
	enrolled []int
}

func (m *mockEnroller) Enroll(ctx context.Context, userID int, email, name string) error {
	m.enrolled = append(m.enrolled, userID)
	return m.err
}

type sentEmail struct {
	template  string
	recipient string
	params    []string
}

// mockMailer records queued e-mails
type mockMailer struct {
	err  error
	sent []sentEmail
}

func (m *mockMailer) SendEmail(ctx context.Context, templateSlug, recipient string, params ...string) error {
	m.sent = append(m.sent, sentEmail{template: templateSlug, recipient: recipient, params: params})
	return m.err
}

// mockSetupTokenRepository accepts a single known token
type mockSetupTokenRepository struct {
	valid      string
	createErr  error
	created    []*models.SetupToken
	redeemedBy int
}

func (m *mockSetupTokenRepository) Create(ctx context.Context, t *models.SetupToken) error {
	if m.createErr != nil {
		return m.createErr
	}
	t.ID = len(m.created) + 1
	m.created = append(m.created, t)
	return nil
}

func (m *mockSetupTokenRepository) Redeem(ctx context.Context, token string, userID int, now time.Time) error {
	if token != m.valid || m.redeemedBy != 0 {
		return models.ErrInvalidToken
	}
	m.redeemedBy = userID
	return nil
}

// mockPasswordResetRepository stores reset codes by token
type mockPasswordResetRepository struct {
	resets    map[string]*models.PasswordReset
	createErr error
}

func newMockPasswordResetRepository() *mockPasswordResetRepository {
	return &mockPasswordResetRepository{resets: map[string]*models.PasswordReset{}}
}

func (m *mockPasswordResetRepository) Create(ctx context.Context, reset *models.PasswordReset) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.resets[reset.Token] = reset
	return nil
}

func (m *mockPasswordResetRepository) Consume(ctx context.Context, token string, now time.Time) (int, error) {
	reset, ok := m.resets[token]
	if !ok || reset.UsedAt != nil || !reset.ExpiresAt.After(now) {
		return 0, models.ErrInvalidToken
	}
	reset.UsedAt = &now
	return reset.UserID, nil
}

// mockNewsletterRepository remembers subscribed addresses
type mockNewsletterRepository struct {
	emails map[string]string
	err    error
}

func (m *mockNewsletterRepository) Subscribe(ctx context.Context, email, source string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.emails == nil {
		m.emails = map[string]string{}
	}
	if _, ok := m.emails[email]; ok {
		return false, nil
	}
	m.emails[email] = source
	return true, nil
}
