package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
)

// ActivityLogRepository is the interface for activity log data access
type ActivityLogRepository interface {
	Create(ctx context.Context, a *models.ActivityLog) error
	List(ctx context.Context, userID *int, limit, offset int) ([]models.ActivityLog, error)
}

type activityService struct {
	repo ActivityLogRepository
	now  func() time.Time
}

// NewActivityService creates a new activity service
func NewActivityService(repo ActivityLogRepository) *activityService {
	return &activityService{
		repo: repo,
		now:  time.Now,
	}
}

// Log records an action of a user
func (s *activityService) Log(ctx context.Context, userID int, ipAddress string, req *models.LogActivityRequest) (*models.ActivityLog, error) {
	if len(req.Metadata) > 0 && !json.Valid(req.Metadata) {
		return nil, fmt.Errorf("%w: metadata must be valid JSON", models.ErrValidation)
	}
	a := &models.ActivityLog{
		UserID:    userID,
		Action:    strings.TrimSpace(req.Action),
		Metadata:  req.Metadata,
		IPAddress: ipAddress,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns a page of activity, optionally for one user
func (s *activityService) List(ctx context.Context, userID *int, page, count int) ([]models.ActivityLog, error) {
	return s.repo.List(ctx, userID, count, (page-1)*count)
}
