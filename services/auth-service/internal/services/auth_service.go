package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aura-academy/portal/libs/auth/service"
	"github.com/aura-academy/portal/services/auth-service/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user.
	//
	// If the email is taken, ErrEmailTaken is returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by email.
	//
	// If user with such email does not exist, ErrNotFound is returned.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, ErrNotFound is returned.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method UpdateFullName changes the display name of a user.
	UpdateFullName(ctx context.Context, userID int, fullName string) error
	// Method UpdatePasswordHash replaces the password hash of a user.
	UpdatePasswordHash(ctx context.Context, userID int, passwordHash string) error
	// Method UpdateRole changes the role of a user.
	UpdateRole(ctx context.Context, userID int, role models.Role) error
	// Method List retrieves a page of users filtered by role and search text.
	List(ctx context.Context, page, count int, role *models.Role, search string) ([]models.UserListItem, error)
	// Method CountAdmins returns the number of admin accounts.
	CountAdmins(ctx context.Context) (int, error)
}

// UserTokenRepository is the interface that wraps methods for UserToken table data access
type UserTokenRepository interface {
	// Method Create inserts a new user token into the database.
	Create(ctx context.Context, userToken *models.UserToken) error
	// Method GetByToken retrieves a user token by token string.
	//
	// If user token with such token does not exist, ErrInvalidToken is returned.
	GetByToken(ctx context.Context, token string) (*models.UserToken, error)
	// Method UpdateToken replaces oldToken of userID with newToken.
	UpdateToken(ctx context.Context, oldToken, newToken string, userID int) error
	// Method DeleteByToken deletes a user token by token string.
	DeleteByToken(ctx context.Context, token string) error
	// Method DeleteByUserID deletes every token of a user.
	DeleteByUserID(ctx context.Context, userID int) error
	// Method DeleteExpiredTokens deletes tokens created at or before expiryTime and returns how many were removed.
	DeleteExpiredTokens(ctx context.Context, expiryTime time.Time) (int, error)
}

// Enroller starts the course schedule of new students
type Enroller interface {
	Enroll(ctx context.Context, userID int, email, name string) error
}

// Mailer queues templated e-mails
type Mailer interface {
	SendEmail(ctx context.Context, templateSlug, recipient string, params ...string) error
}

// E-mail template slugs owned by the task service
const (
	TemplateWelcome       = "welcome"
	TemplatePasswordReset = "password_reset"
)

// authService implements AuthService
type authService struct {
	userRepo       UserRepository
	userTokenRepo  UserTokenRepository
	enroller       Enroller
	mailer         Mailer
	tokenGenerator *service.TokenGenerator
	logger         *zap.Logger
	appBaseURL     string
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	userTokenRepo UserTokenRepository,
	enroller Enroller,
	mailer Mailer,
	tokenGenerator *service.TokenGenerator,
	logger *zap.Logger,
	appBaseURL string,
) *authService {
	return &authService{
		userRepo:       userRepo,
		userTokenRepo:  userTokenRepo,
		enroller:       enroller,
		mailer:         mailer,
		tokenGenerator: tokenGenerator,
		logger:         logger,
		appBaseURL:     strings.TrimRight(appBaseURL, "/"),
	}
}

// Register creates a student account and signs it in.
// Enrollment and the welcome e-mail are best effort; their failures are only logged.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (string, string, error) {
	email := normalizeEmail(req.Email)
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return "", "", fmt.Errorf("%w: full name cannot be empty", models.ErrValidation)
	}
	if err := validateNewPassword(req.Password, req.ConfirmPassword); err != nil {
		return "", "", err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	if exists {
		return "", "", models.ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(passwordHash),
		Role:         models.RoleStudent,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", "", err
	}

	if err := s.enroller.Enroll(ctx, user.ID, user.Email, user.FullName); err != nil {
		s.logger.Warn("failed to enroll new student", zap.Int("userID", user.ID), zap.Error(err))
	}
	if err := s.mailer.SendEmail(ctx, TemplateWelcome, user.Email, user.FullName, s.appBaseURL+"/student-welcome"); err != nil {
		s.logger.Warn("failed to queue welcome e-mail", zap.Int("userID", user.ID), zap.Error(err))
	}

	return generateAndSaveTokens(ctx, s.tokenGenerator, s.userTokenRepo, user.ID, user.Role)
}

// Login authenticates a user by email and password
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, models.ErrNotFound) {
		return "", "", models.ErrInvalidCredentials
	}
	if err != nil {
		return "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", "", models.ErrInvalidCredentials
	}

	return generateAndSaveTokens(ctx, s.tokenGenerator, s.userTokenRepo, user.ID, user.Role)
}

// Refresh rotates a refresh token. An expired token is removed from the store.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", "", models.ErrInvalidToken
	}

	if err := s.tokenGenerator.ValidateRefreshToken(refreshToken); err != nil {
		if delErr := s.userTokenRepo.DeleteByToken(ctx, refreshToken); delErr != nil {
			s.logger.Warn("failed to delete invalid refresh token", zap.Error(delErr))
		}
		return "", "", models.ErrInvalidToken
	}

	userToken, err := s.userTokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return "", "", err
	}

	// The role is read again so a promotion takes effect on the next refresh
	user, err := s.userRepo.GetByID(ctx, userToken.UserID)
	if err != nil {
		return "", "", err
	}

	accessToken, newRefreshToken, err := s.tokenGenerator.GenerateTokens(user.ID, int(user.Role))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.userTokenRepo.UpdateToken(ctx, refreshToken, newRefreshToken, userToken.UserID); err != nil {
		return "", "", err
	}

	return accessToken, newRefreshToken, nil
}

// Logout revokes a refresh token; an unknown token is not an error
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	return s.userTokenRepo.DeleteByToken(ctx, refreshToken)
}

// generateAndSaveTokens generates access and refresh tokens and stores the refresh token
func generateAndSaveTokens(ctx context.Context, tokenGenerator *service.TokenGenerator,
	userTokenRepo UserTokenRepository, userID int, role models.Role) (string, string, error) {
	accessToken, refreshToken, err := tokenGenerator.GenerateTokens(userID, int(role))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	userToken := &models.UserToken{
		UserID: userID,
		Token:  refreshToken,
	}
	if err := userTokenRepo.Create(ctx, userToken); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
