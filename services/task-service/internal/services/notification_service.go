package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aura-academy/portal/services/task-service/internal/models"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Asynq task type and queue used for notification e-mails
const (
	TaskTypeSendEmail  = "email:send"
	QueueNotifications = "notifications"
)

// NotificationRepository is the interface that wraps methods for notification data access
type NotificationRepository interface {
	// Method Create inserts a pending notification and sets its ID.
	Create(ctx context.Context, n *models.Notification) error
	// Method GetByID retrieves a notification.
	//
	// If it does not exist, ErrNotFound is returned.
	GetByID(ctx context.Context, id int) (*models.Notification, error)
	// Method GetAll retrieves a page of notifications matching filter.
	GetAll(ctx context.Context, page, count int, filter models.NotificationFilter) ([]models.NotificationListItem, error)
	// Method MarkFailed records a failed delivery attempt.
	MarkFailed(ctx context.Context, id int, errorMsg string) error
	// Method ResetToPending moves a failed notification back to pending.
	ResetToPending(ctx context.Context, id int) error
}

// TemplateLookup resolves template slugs
type TemplateLookup interface {
	GetIDBySlug(ctx context.Context, slug string) (int, error)
}

// Enqueuer puts tasks on the asynq queue; *asynq.Client implements it
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type notificationService struct {
	repo         NotificationRepository
	templateRepo TemplateLookup
	queue        Enqueuer
	logger       *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo NotificationRepository, templateRepo TemplateLookup, queue Enqueuer, logger *zap.Logger) *notificationService {
	return &notificationService{
		repo:         repo,
		templateRepo: templateRepo,
		queue:        queue,
		logger:       logger,
	}
}

// Send stores a notification and queues it for the worker
func (s *notificationService) Send(ctx context.Context, req *models.SendEmailRequest) (*models.SendEmailResponse, error) {
	slug := strings.TrimSpace(req.TemplateSlug)
	recipient := strings.TrimSpace(req.Recipient)
	if slug == "" {
		return nil, fmt.Errorf("%w: template slug is required", models.ErrValidation)
	}
	if recipient == "" {
		return nil, fmt.Errorf("%w: recipient is required", models.ErrValidation)
	}

	templateID, err := s.templateRepo.GetIDBySlug(ctx, slug)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown email template %q", models.ErrValidation, slug)
	}
	if err != nil {
		return nil, err
	}

	n := &models.Notification{
		UserID:     req.UserID,
		TemplateID: templateID,
		Recipient:  recipient,
		Params:     req.Params,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if err := s.enqueue(ctx, n.ID); err != nil {
		if markErr := s.repo.MarkFailed(ctx, n.ID, err.Error()); markErr != nil {
			s.logger.Warn("failed to mark notification as failed", zap.Int("notificationID", n.ID), zap.Error(markErr))
		}
		return nil, err
	}

	s.logger.Debug("notification queued", zap.Int("notificationID", n.ID), zap.String("template", slug))
	return &models.SendEmailResponse{ID: n.ID, Status: n.Status}, nil
}

// GetByID retrieves a notification by ID
func (s *notificationService) GetByID(ctx context.Context, id int) (*models.Notification, error) {
	return s.repo.GetByID(ctx, id)
}

// GetAll retrieves a paginated list of notifications; an unknown status filter is an error
func (s *notificationService) GetAll(ctx context.Context, page, count int, filter models.NotificationFilter) ([]models.NotificationListItem, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", models.ErrValidation, filter.Status)
	}
	return s.repo.GetAll(ctx, page, count, filter)
}

// Retry queues a failed notification again
func (s *notificationService) Retry(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.ResetToPending(ctx, id); err != nil {
		return err
	}
	if err := s.enqueue(ctx, id); err != nil {
		if markErr := s.repo.MarkFailed(ctx, id, err.Error()); markErr != nil {
			s.logger.Warn("failed to mark notification as failed", zap.Int("notificationID", id), zap.Error(markErr))
		}
		return err
	}
	return nil
}

func (s *notificationService) enqueue(ctx context.Context, id int) error {
	task := asynq.NewTask(TaskTypeSendEmail, []byte(strconv.Itoa(id)))
	if _, err := s.queue.EnqueueContext(ctx, task, asynq.Queue(QueueNotifications), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}
