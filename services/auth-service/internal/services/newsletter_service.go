package services

import (
	"context"
	"strings"

	"github.com/aura-academy/portal/services/auth-service/internal/models"
)

// NewsletterRepository is the interface for subscriber data access
type NewsletterRepository interface {
	Subscribe(ctx context.Context, email, source string) (bool, error)
}

type newsletterService struct {
	repo NewsletterRepository
}

// NewNewsletterService creates a new newsletter service
func NewNewsletterService(repo NewsletterRepository) *newsletterService {
	return &newsletterService{repo: repo}
}

// Subscribe adds an address; subscribing twice is not an error
func (s *newsletterService) Subscribe(ctx context.Context, req *models.SubscribeRequest) (*models.SubscribeResponse, error) {
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "website"
	}
	created, err := s.repo.Subscribe(ctx, normalizeEmail(req.Email), source)
	if err != nil {
		return nil, err
	}
	return &models.SubscribeResponse{Subscribed: true, AlreadySubscribed: !created}, nil
}
