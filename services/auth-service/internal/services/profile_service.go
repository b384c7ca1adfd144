package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aura-academy/portal/services/auth-service/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// profileService implements ProfileService
type profileService struct {
	userRepo      UserRepository
	userTokenRepo UserTokenRepository
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo UserRepository, userTokenRepo UserTokenRepository) *profileService {
	return &profileService{
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
	}
}

// GetProfile returns the account of the signed-in user
func (s *profileService) GetProfile(ctx context.Context, userID int) (*models.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToProfile(), nil
}

// UpdateProfile changes the display name
func (s *profileService) UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.ProfileResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name cannot be empty", models.ErrValidation)
	}
	if err := s.userRepo.UpdateFullName(ctx, userID, fullName); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// ChangePassword replaces the password after checking the current one and signs out other sessions
func (s *profileService) ChangePassword(ctx context.Context, userID int, req *models.ChangePasswordRequest) error {
	if err := validateNewPassword(req.Password, req.ConfirmPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return models.ErrInvalidCredentials
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
