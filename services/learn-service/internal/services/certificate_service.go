package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CertificateRepository is the interface for certificate data access
type CertificateRepository interface {
	GetByUserID(ctx context.Context, userID int) (*models.Certificate, error)
	GetByCode(ctx context.Context, code string) (*models.Certificate, error)
	Create(ctx context.Context, c *models.Certificate) error
}

// CompletedDaysLister lists the days a user has completed
type CompletedDaysLister interface {
	ListDays(ctx context.Context, userID int) ([]int, error)
}

type certificateService struct {
	certRepo       CertificateRepository
	completionRepo CompletedDaysLister
	days           int
	courseTitle    string
	logger         *zap.Logger
	now            func() time.Time
}

// NewCertificateService creates a new certificate service
func NewCertificateService(certRepo CertificateRepository, completionRepo CompletedDaysLister, days int, logger *zap.Logger) *certificateService {
	return &certificateService{
		certRepo:       certRepo,
		completionRepo: completionRepo,
		days:           days,
		courseTitle:    models.DefaultCourseTitle,
		logger:         logger,
		now:            time.Now,
	}
}

// Issue creates the user's certificate once every day is completed.
// A user who already holds a certificate gets it back unchanged with created=false.
func (s *certificateService) Issue(ctx context.Context, userID int, req *models.IssueCertificateRequest) (cert *models.Certificate, created bool, err error) {
	var (
		existing  *models.Certificate
		completed []int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.certRepo.GetByUserID(gctx, userID)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		existing = c
		return err
	})
	g.Go(func() error {
		days, err := s.completionRepo.ListDays(gctx, userID)
		completed = days
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, false, fmt.Errorf("failed to check certificate eligibility: %w", err)
	}

	if existing != nil {
		return existing, false, nil
	}
	if missing := missingDays(completed, s.days); len(missing) > 0 {
		return nil, false, fmt.Errorf("%w: days %v are not completed", models.ErrCourseIncomplete, missing)
	}

	cert = &models.Certificate{
		UserID:        userID,
		Code:          newCertificateCode(),
		RecipientName: strings.TrimSpace(req.RecipientName),
		CourseTitle:   s.courseTitle,
		IssuedAt:      s.now().UTC(),
	}
	if err := s.certRepo.Create(ctx, cert); err != nil {
		return nil, false, err
	}

	s.logger.Info("certificate issued", zap.Int("userID", userID), zap.String("code", cert.Code))
	return cert, true, nil
}

// GetMine returns the certificate of a user
func (s *certificateService) GetMine(ctx context.Context, userID int) (*models.Certificate, error) {
	return s.certRepo.GetByUserID(ctx, userID)
}

// Verify looks up a certificate by its public code.
// Unknown codes are reported as invalid rather than as an error.
func (s *certificateService) Verify(ctx context.Context, code string) (*models.CertificateVerification, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	c, err := s.certRepo.GetByCode(ctx, code)
	if errors.Is(err, models.ErrNotFound) {
		return &models.CertificateVerification{Valid: false, Code: code}, nil
	}
	if err != nil {
		return nil, err
	}
	issuedAt := c.IssuedAt
	return &models.CertificateVerification{
		Valid:         true,
		Code:          c.Code,
		RecipientName: c.RecipientName,
		CourseTitle:   c.CourseTitle,
		IssuedAt:      &issuedAt,
	}, nil
}

// missingDays returns the days in 1..days absent from completed
func missingDays(completed []int, days int) []int {
	done := make(map[int]bool, len(completed))
	for _, d := range completed {
		done[d] = true
	}
	missing := make([]int, 0)
	for d := 1; d <= days; d++ {
		if !done[d] {
			missing = append(missing, d)
		}
	}
	return missing
}

// newCertificateCode returns a code such as AURA-1A2B-3C4D-5E6F
func newCertificateCode() string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "AURA-" + hex[0:4] + "-" + hex[4:8] + "-" + hex[8:12]
}
