package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aura-academy/portal/services/auth-service/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// resetTokenTTL is how long a password reset link stays valid
const resetTokenTTL = time.Hour

// PasswordResetRepository is the interface for reset code data access
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *models.PasswordReset) error
	Consume(ctx context.Context, token string, now time.Time) (int, error)
}

type passwordResetService struct {
	userRepo      UserRepository
	userTokenRepo UserTokenRepository
	resetRepo     PasswordResetRepository
	mailer        Mailer
	logger        *zap.Logger
	appBaseURL    string
	now           func() time.Time
}

// NewPasswordResetService creates a new password reset service
func NewPasswordResetService(
	userRepo UserRepository,
	userTokenRepo UserTokenRepository,
	resetRepo PasswordResetRepository,
	mailer Mailer,
	logger *zap.Logger,
	appBaseURL string,
) *passwordResetService {
	return &passwordResetService{
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		resetRepo:     resetRepo,
		mailer:        mailer,
		logger:        logger,
		appBaseURL:    strings.TrimRight(appBaseURL, "/"),
		now:           time.Now,
	}
}

// RequestReset e-mails a reset link. Unknown addresses succeed silently
// so the endpoint does not reveal which e-mails have accounts.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Debug("password reset requested for unknown e-mail")
		return nil
	}
	if err != nil {
		return err
	}

	reset := &models.PasswordReset{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().UTC().Add(resetTokenTTL),
	}
	if err := s.resetRepo.Create(ctx, reset); err != nil {
		return err
	}

	link := s.appBaseURL + "/reset-password?token=" + url.QueryEscape(reset.Token)
	if err := s.mailer.SendEmail(ctx, TemplatePasswordReset, user.Email, user.FullName, link); err != nil {
		return fmt.Errorf("failed to queue password reset e-mail: %w", err)
	}
	return nil
}

// ConfirmReset sets a new password with a reset code and signs out every session
func (s *passwordResetService) ConfirmReset(ctx context.Context, req *models.PasswordResetConfirmRequest) error {
	if err := validateNewPassword(req.Password, req.ConfirmPassword); err != nil {
		return err
	}

	userID, err := s.resetRepo.Consume(ctx, strings.TrimSpace(req.Token), s.now().UTC())
	if err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, userID, string(passwordHash)); err != nil {
		return err
	}
	return s.userTokenRepo.DeleteByUserID(ctx, userID)
}
