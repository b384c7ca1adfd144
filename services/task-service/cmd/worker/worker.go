package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"time"

	"github.com/aura-academy/portal/services/task-service/internal/models"
	"github.com/aura-academy/portal/services/task-service/internal/services"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// NotificationRepository defines the notification operations the worker needs
type NotificationRepository interface {
	// GetByID retrieves a notification; ErrNotFound if it was deleted
	GetByID(ctx context.Context, id int) (*models.Notification, error)
	// MarkCompleted records a successful delivery
	MarkCompleted(ctx context.Context, id int, sentAt time.Time) error
	// MarkFailed records a failed delivery attempt
	MarkFailed(ctx context.Context, id int, errorMsg string) error
}

// EmailTemplateRepository defines the interface for email template lookups
type EmailTemplateRepository interface {
	// GetPartsByID retrieves an email subject and body by template ID
	GetPartsByID(ctx context.Context, id int) (*models.EmailTemplateParts, error)
}

// Sender delivers a rendered e-mail
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Worker handles notification tasks
type Worker struct {
	logger       *zap.Logger
	notifyRepo   NotificationRepository
	templateRepo EmailTemplateRepository
	sender       Sender
	now          func() time.Time
}

// NewWorker creates a new worker instance
func NewWorker(logger *zap.Logger, notifyRepo NotificationRepository, templateRepo EmailTemplateRepository, sender Sender) *Worker {
	return &Worker{
		logger:       logger,
		notifyRepo:   notifyRepo,
		templateRepo: templateRepo,
		sender:       sender,
		now:          time.Now,
	}
}

// HandleSendEmail renders and sends one notification.
// Deleted or already delivered notifications are skipped; a missing template is not retried.
func (w *Worker) HandleSendEmail(ctx context.Context, t *asynq.Task) error {
	id, err := strconv.Atoi(string(t.Payload()))
	if err != nil {
		return fmt.Errorf("invalid notification id %q: %w", t.Payload(), asynq.SkipRetry)
	}

	n, err := w.notifyRepo.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		w.logger.Info("notification deleted before delivery", zap.Int("notificationID", id))
		return nil
	}
	if err != nil {
		return err
	}
	if n.Status == models.NotificationStatusCompleted {
		return nil
	}

	parts, err := w.templateRepo.GetPartsByID(ctx, n.TemplateID)
	if errors.Is(err, models.ErrNotFound) {
		w.markFailed(ctx, id, "email template no longer exists")
		return fmt.Errorf("template %d of notification %d is gone: %w", n.TemplateID, id, asynq.SkipRetry)
	}
	if err != nil {
		return err
	}

	escaped := make([]string, len(n.Params))
	for i, p := range n.Params {
		escaped[i] = html.EscapeString(p)
	}
	subject := services.RenderTemplate(parts.SubjectTemplate, n.Params)
	body := services.RenderTemplate(parts.BodyTemplate, escaped)

	if err := w.sender.Send(ctx, n.Recipient, subject, body); err != nil {
		w.markFailed(ctx, id, err.Error())
		w.logger.Warn("failed to send e-mail", zap.Int("notificationID", id), zap.Error(err))
		return err
	}

	if err := w.notifyRepo.MarkCompleted(ctx, id, w.now().UTC()); err != nil {
		// The mail is out; retrying would send it twice
		w.logger.Error("failed to mark notification as completed", zap.Int("notificationID", id), zap.Error(err))
		return nil
	}

	w.logger.Debug("e-mail sent", zap.Int("notificationID", id))
	return nil
}

func (w *Worker) markFailed(ctx context.Context, id int, msg string) {
	if err := w.notifyRepo.MarkFailed(ctx, id, msg); err != nil {
		w.logger.Error("failed to mark notification as failed", zap.Int("notificationID", id), zap.Error(err))
	}
}

// mailSender sends e-mails over SMTP using gopkg.in/mail.v2
type mailSender struct {
	dialer *mail.Dialer
	from   string
}

func newMailSender(host string, port int, username, password, from string) *mailSender {
	return &mailSender{
		dialer: mail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *mailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
