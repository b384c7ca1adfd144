package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aura-academy/portal/services/task-service/internal/models"
	"go.uber.org/zap"
)

// EmailTemplateRepository is the interface that wraps methods for email template data access
type EmailTemplateRepository interface {
	Create(ctx context.Context, template *models.EmailTemplate) error
	GetByID(ctx context.Context, id int) (*models.EmailTemplate, error)
	GetAll(ctx context.Context, page, count int, search string) ([]models.EmailTemplateListItem, error)
	Update(ctx context.Context, id int, template *models.EmailTemplate) error
	Delete(ctx context.Context, id int) error
}

// slugRegex limits slugs to lower-case words joined by '_' or '-'
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:[_-][a-z0-9]+)*$`)

type emailTemplateService struct {
	repo   EmailTemplateRepository
	logger *zap.Logger
}

// NewEmailTemplateService creates a new email template service
func NewEmailTemplateService(repo EmailTemplateRepository, logger *zap.Logger) *emailTemplateService {
	return &emailTemplateService{
		repo:   repo,
		logger: logger,
	}
}

// Create creates a new email template
func (s *emailTemplateService) Create(ctx context.Context, req *models.CreateEmailTemplateRequest) (int, error) {
	slug, err := normalizeSlug(req.Slug)
	if err != nil {
		return 0, err
	}

	template := &models.EmailTemplate{
		Slug:            slug,
		SubjectTemplate: strings.TrimSpace(req.SubjectTemplate),
		BodyTemplate:    req.BodyTemplate,
	}
	if template.SubjectTemplate == "" || strings.TrimSpace(template.BodyTemplate) == "" {
		return 0, fmt.Errorf("%w: subject and body are required", models.ErrValidation)
	}

	if err := s.repo.Create(ctx, template); err != nil {
		return 0, err
	}

	s.logger.Info("email template created", zap.Int("templateID", template.ID), zap.String("slug", slug))
	return template.ID, nil
}

// GetByID retrieves an email template by ID
func (s *emailTemplateService) GetByID(ctx context.Context, id int) (*models.EmailTemplate, error) {
	return s.repo.GetByID(ctx, id)
}

// GetAll retrieves a paginated list of email templates
func (s *emailTemplateService) GetAll(ctx context.Context, page, count int, search string) ([]models.EmailTemplateListItem, error) {
	return s.repo.GetAll(ctx, page, count, strings.TrimSpace(search))
}

// Update changes the given fields of an email template
func (s *emailTemplateService) Update(ctx context.Context, id int, req *models.UpdateEmailTemplateRequest) error {
	template := &models.EmailTemplate{
		SubjectTemplate: strings.TrimSpace(req.SubjectTemplate),
		BodyTemplate:    req.BodyTemplate,
	}
	if req.Slug != "" {
		slug, err := normalizeSlug(req.Slug)
		if err != nil {
			return err
		}
		template.Slug = slug
	}
	return s.repo.Update(ctx, id, template)
}

// Delete deletes an email template
func (s *emailTemplateService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// Preview renders a template with sample params without sending anything
func (s *emailTemplateService) Preview(ctx context.Context, id int, params []string) (*models.EmailTemplateParts, error) {
	template, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.EmailTemplateParts{
		SubjectTemplate: RenderTemplate(template.SubjectTemplate, params),
		BodyTemplate:    RenderTemplate(template.BodyTemplate, params),
	}, nil
}

func normalizeSlug(slug string) (string, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugRegex.MatchString(slug) {
		return "", fmt.Errorf("%w: slug must contain lower-case letters, digits, '_' or '-'", models.ErrValidation)
	}
	return slug, nil
}
