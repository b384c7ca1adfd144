package services

import (
	"context"
	"strings"
	"time"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"go.uber.org/zap"
)

type dripService struct {
	enrollmentRepo EnrollmentRepository
	days           int
	logger         *zap.Logger
	now            func() time.Time
}

// NewDripService creates a new drip service
func NewDripService(enrollmentRepo EnrollmentRepository, days int, logger *zap.Logger) *dripService {
	return &dripService{
		enrollmentRepo: enrollmentRepo,
		days:           days,
		logger:         logger,
		now:            time.Now,
	}
}

// Enroll records the contact details of a new student; the enrollment date of
// an existing student is kept
func (s *dripService) Enroll(ctx context.Context, req *models.EnrollRequest) (*models.Enrollment, error) {
	e := &models.Enrollment{
		UserID:     req.UserID,
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Name:       strings.TrimSpace(req.Name),
		EnrolledAt: s.now().UTC(),
	}
	if err := s.enrollmentRepo.Upsert(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("student enrolled", zap.Int("userID", e.UserID))
	return e, nil
}

// ListUnlocking returns the students whose next day opens on date
func (s *dripService) ListUnlocking(ctx context.Context, date time.Time) ([]models.DripUnlock, error) {
	if s.days < 2 {
		return []models.DripUnlock{}, nil
	}
	return s.enrollmentRepo.ListUnlockingOn(ctx, startOfDay(date), s.days)
}
