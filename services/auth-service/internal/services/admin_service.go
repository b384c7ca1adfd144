package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aura-academy/portal/libs/auth/service"
	"github.com/aura-academy/portal/services/auth-service/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultSetupTokenTTL is the lifetime of a setup token when none is requested
const defaultSetupTokenTTL = 24 * time.Hour

// SetupTokenRepository is the interface for setup token data access
type SetupTokenRepository interface {
	Create(ctx context.Context, t *models.SetupToken) error
	Redeem(ctx context.Context, token string, userID int, now time.Time) error
}

// adminService implements AdminService
type adminService struct {
	userRepo       UserRepository
	userTokenRepo  UserTokenRepository
	setupTokenRepo SetupTokenRepository
	tokenGenerator *service.TokenGenerator
	logger         *zap.Logger
	now            func() time.Time
}

// NewAdminService creates a new admin service
func NewAdminService(
	userRepo UserRepository,
	userTokenRepo UserTokenRepository,
	setupTokenRepo SetupTokenRepository,
	tokenGenerator *service.TokenGenerator,
	logger *zap.Logger,
) *adminService {
	return &adminService{
		userRepo:       userRepo,
		userTokenRepo:  userTokenRepo,
		setupTokenRepo: setupTokenRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
		now:            time.Now,
	}
}

// ListUsers returns a page of accounts
func (s *adminService) ListUsers(ctx context.Context, page, count int, role *models.Role, search string) ([]models.UserListItem, error) {
	if role != nil && *role != models.RoleStudent && *role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %d", models.ErrValidation, *role)
	}
	return s.userRepo.List(ctx, page, count, role, search)
}

// CreateSetupToken issues a single-use admin setup token.
// createdBy is nil for tokens minted from the command line.
func (s *adminService) CreateSetupToken(ctx context.Context, createdBy *int, ttl time.Duration) (*models.SetupToken, error) {
	if ttl <= 0 {
		ttl = defaultSetupTokenTTL
	}
	now := s.now().UTC()
	t := &models.SetupToken{
		Token:     uuid.NewString(),
		CreatedBy: createdBy,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.setupTokenRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("admin setup token created", zap.Int("setupTokenID", t.ID), zap.Time("expiresAt", t.ExpiresAt))
	return t, nil
}

// Promote redeems a setup token and makes the caller an admin.
// New tokens are returned since the role travels in the access token.
func (s *adminService) Promote(ctx context.Context, userID int, token string) (string, string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	if user.Role == models.RoleAdmin {
		return "", "", models.ErrAlreadyAdmin
	}

	if err := s.setupTokenRepo.Redeem(ctx, token, userID, s.now().UTC()); err != nil {
		return "", "", err
	}
	if err := s.userRepo.UpdateRole(ctx, userID, models.RoleAdmin); err != nil {
		return "", "", err
	}
	s.logger.Info("user promoted to admin", zap.Int("userID", userID))

	return generateAndSaveTokens(ctx, s.tokenGenerator, s.userTokenRepo, userID, models.RoleAdmin)
}

// CleanExpiredTokens removes refresh tokens older than maxAge
func (s *adminService) CleanExpiredTokens(ctx context.Context, maxAge time.Duration) (int, error) {
	return s.userTokenRepo.DeleteExpiredTokens(ctx, s.now().Add(-maxAge))
}
