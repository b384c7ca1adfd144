package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"go.uber.org/zap"
)

// ReviewRepository is the interface for review data access
type ReviewRepository interface {
	Create(ctx context.Context, rv *models.Review) error
	GetByID(ctx context.Context, id int) (*models.Review, error)
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]models.Review, error)
	SetPublished(ctx context.Context, id int, published bool) error
	CreateResponse(ctx context.Context, resp *models.InstructorResponse) error
}

type reviewService struct {
	repo   ReviewRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(repo ReviewRepository, logger *zap.Logger) *reviewService {
	return &reviewService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Submit stores a review; it stays hidden until an admin publishes it
func (s *reviewService) Submit(ctx context.Context, userID int, req *models.SubmitReviewRequest) (*models.Review, error) {
	rv := &models.Review{
		UserID:      userID,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Rating:      req.Rating,
		Body:        strings.TrimSpace(req.Body),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// ListPublished returns a page of published reviews
func (s *reviewService) ListPublished(ctx context.Context, page, count int) ([]models.Review, error) {
	return s.repo.List(ctx, true, count, (page-1)*count)
}

// ListAll returns a page of every review for moderation
func (s *reviewService) ListAll(ctx context.Context, page, count int) ([]models.Review, error) {
	return s.repo.List(ctx, false, count, (page-1)*count)
}

// SetPublished shows or hides a review
func (s *reviewService) SetPublished(ctx context.Context, id int, published bool) error {
	return s.repo.SetPublished(ctx, id, published)
}

// Respond attaches the single instructor response a review may have
func (s *reviewService) Respond(ctx context.Context, reviewID, responderID int, req *models.RespondReviewRequest) (*models.InstructorResponse, error) {
	rv, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv.Response != nil {
		return nil, fmt.Errorf("review %d: %w", reviewID, models.ErrAlreadyResponded)
	}

	resp := &models.InstructorResponse{
		ReviewID:    reviewID,
		ResponderID: responderID,
		Body:        strings.TrimSpace(req.Body),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.CreateResponse(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
