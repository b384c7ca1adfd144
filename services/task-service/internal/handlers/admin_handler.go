package handlers

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/aura-academy/portal/libs/handlers"
	"github.com/aura-academy/portal/services/task-service/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// EmailTemplateService is the interface that wraps methods for email template business logic
type EmailTemplateService interface {
	GetAll(ctx context.Context, page, count int, search string) ([]models.EmailTemplateListItem, error)
	GetByID(ctx context.Context, id int) (*models.EmailTemplate, error)
	Create(ctx context.Context, req *models.CreateEmailTemplateRequest) (int, error)
	Update(ctx context.Context, id int, req *models.UpdateEmailTemplateRequest) error
	Delete(ctx context.Context, id int) error
	Preview(ctx context.Context, id int, params []string) (*models.EmailTemplateParts, error)
}

// NotificationAdminService is the interface that wraps methods for notification history
type NotificationAdminService interface {
	GetAll(ctx context.Context, page, count int, filter models.NotificationFilter) ([]models.NotificationListItem, error)
	GetByID(ctx context.Context, id int) (*models.Notification, error)
	// Method Retry queues a failed notification again.
	//
	// A notification that is not failed returns ErrValidation.
	Retry(ctx context.Context, id int) error
}

// JobRunService is the interface for scheduler job history
type JobRunService interface {
	GetAll(ctx context.Context, page, count int, job string) ([]models.JobRun, error)
}

// QueueInspector reads queue state; *asynq.Inspector implements it
type QueueInspector interface {
	Queues() ([]string, error)
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

// AdminHandler handles admin-related HTTP requests
type AdminHandler struct {
	handlers.BaseHandler
	emailTemplateService EmailTemplateService
	notificationService  NotificationAdminService
	jobRunService        JobRunService
	inspector            QueueInspector
	queue                string
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	emailTemplateService EmailTemplateService,
	notificationService NotificationAdminService,
	jobRunService JobRunService,
	inspector QueueInspector,
	queue string,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:          handlers.BaseHandler{Logger: logger},
		emailTemplateService: emailTemplateService,
		notificationService:  notificationService,
		jobRunService:        jobRunService,
		inspector:            inspector,
		queue:                queue,
	}
}

// RegisterRoutes registers all admin handler routes
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		// Email Templates
		r.Get("/email-templates", h.GetEmailTemplatesList)
		r.Get("/email-templates/{id}", h.GetEmailTemplate)
		r.Post("/email-templates", h.CreateEmailTemplate)
		r.Patch("/email-templates/{id}", h.UpdateEmailTemplate)
		r.Delete("/email-templates/{id}", h.DeleteEmailTemplate)
		r.Post("/email-templates/{id}/preview", h.PreviewEmailTemplate)

		// Notifications
		r.Get("/notifications", h.GetNotificationsList)
		r.Get("/notifications/{id}", h.GetNotification)
		r.Post("/notifications/{id}/retry", h.RetryNotification)

		// Scheduler and queue
		r.Get("/job-runs", h.GetJobRunsList)
		r.Get("/queue", h.GetQueueStats)
	})
}

// Email Template Handlers

// GetEmailTemplatesList handles GET /admin/email-templates
// @Summary Get list of email templates
// @Description Get paginated list of email templates with optional search filter. Requires admin role.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param count query int false "Items per page (default: 20)"
// @Param search query string false "Search in template slug"
// @Success 200 {array} models.EmailTemplateListItem "List of email templates"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/email-templates [get]
func (h *AdminHandler) GetEmailTemplatesList(w http.ResponseWriter, r *http.Request) {
	page, count := parsePagination(r)

	templates, err := h.emailTemplateService.GetAll(r.Context(), page, count, r.URL.Query().Get("search"))
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get email templates")
		return
	}
	h.RespondJSON(w, http.StatusOK, templates)
}

// GetEmailTemplate handles GET /admin/email-templates/{id}
// @Summary Get email template by ID
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Email template ID"
// @Success 200 {object} models.EmailTemplate "Email template"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Email template not found"
// @Router /admin/email-templates/{id} [get]
func (h *AdminHandler) GetEmailTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	template, err := h.emailTemplateService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get email template")
		return
	}
	h.RespondJSON(w, http.StatusOK, template)
}

// CreateEmailTemplate handles POST /admin/email-templates
// @Summary Create email template
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateEmailTemplateRequest true "Email template"
// @Success 201 {object} map[string]any "Email template created"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "Slug already taken"
// @Router /admin/email-templates [post]
func (h *AdminHandler) CreateEmailTemplate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEmailTemplateRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.emailTemplateService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to create email template")
		return
	}
	h.RespondJSON(w, http.StatusCreated, map[string]any{
		"message": "email template created successfully",
		"id":      id,
	})
}

// UpdateEmailTemplate handles PATCH /admin/email-templates/{id}
// @Summary Update email template
// @Description Empty fields keep their current value
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Email template ID"
// @Param request body models.UpdateEmailTemplateRequest true "Changed fields"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Email template not found"
// @Failure 409 {object} map[string]string "Slug already taken"
// @Router /admin/email-templates/{id} [patch]
func (h *AdminHandler) UpdateEmailTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req models.UpdateEmailTemplateRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Slug == "" && req.SubjectTemplate == "" && req.BodyTemplate == "" {
		h.RespondError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if err := h.emailTemplateService.Update(r.Context(), id, &req); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to update email template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteEmailTemplate handles DELETE /admin/email-templates/{id}
// @Summary Delete email template
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Email template ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Email template not found"
// @Router /admin/email-templates/{id} [delete]
func (h *AdminHandler) DeleteEmailTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.emailTemplateService.Delete(r.Context(), id); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to delete email template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PreviewEmailTemplate handles POST /admin/email-templates/{id}/preview
// @Summary Render an email template with sample params
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Email template ID"
// @Param request body models.PreviewEmailTemplateRequest false "Sample params"
// @Success 200 {object} map[string]string "Rendered subject and body"
// @Failure 404 {object} map[string]string "Email template not found"
// @Router /admin/email-templates/{id}/preview [post]
func (h *AdminHandler) PreviewEmailTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req models.PreviewEmailTemplateRequest
	if r.ContentLength != 0 {
		if err := h.BindJSON(r, &req); err != nil {
			h.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	parts, err := h.emailTemplateService.Preview(r.Context(), id, req.Params)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to render email template")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{
		"subject": parts.SubjectTemplate,
		"body":    parts.BodyTemplate,
	})
}

// Notification Handlers

// GetNotificationsList handles GET /admin/notifications
// @Summary Get list of notifications
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param count query int false "Items per page (default: 20)"
// @Param user_id query int false "Filter by user ID"
// @Param template_id query int false "Filter by template ID"
// @Param status query string false "Filter by status (pending, completed, failed)"
// @Success 200 {array} models.NotificationListItem "Notifications"
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /admin/notifications [get]
func (h *AdminHandler) GetNotificationsList(w http.ResponseWriter, r *http.Request) {
	page, count := parsePagination(r)

	userID, ok := optionalIntQuery(r, "user_id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid user_id")
		return
	}
	templateID, ok := optionalIntQuery(r, "template_id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid template_id")
		return
	}

	filter := models.NotificationFilter{
		UserID:     userID,
		TemplateID: templateID,
		Status:     models.NotificationStatus(strings.ToLower(r.URL.Query().Get("status"))),
	}

	items, err := h.notificationService.GetAll(r.Context(), page, count, filter)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get notifications")
		return
	}
	h.RespondJSON(w, http.StatusOK, items)
}

// GetNotification handles GET /admin/notifications/{id}
// @Summary Get notification by ID
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} models.Notification "Notification"
// @Failure 404 {object} map[string]string "Notification not found"
// @Router /admin/notifications/{id} [get]
func (h *AdminHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	n, err := h.notificationService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get notification")
		return
	}
	h.RespondJSON(w, http.StatusOK, n)
}

// RetryNotification handles POST /admin/notifications/{id}/retry
// @Summary Queue a failed notification again
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 202 "Accepted"
// @Failure 400 {object} map[string]string "Notification is not failed"
// @Failure 404 {object} map[string]string "Notification not found"
// @Router /admin/notifications/{id}/retry [post]
func (h *AdminHandler) RetryNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.notificationService.Retry(r.Context(), id); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to retry notification")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// GetJobRunsList handles GET /admin/job-runs
// @Summary Get scheduler job runs
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param count query int false "Items per page (default: 20)"
// @Param job query string false "Filter by job name"
// @Success 200 {array} models.JobRun "Job runs"
// @Router /admin/job-runs [get]
func (h *AdminHandler) GetJobRunsList(w http.ResponseWriter, r *http.Request) {
	page, count := parsePagination(r)

	runs, err := h.jobRunService.GetAll(r.Context(), page, count, r.URL.Query().Get("job"))
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get job runs")
		return
	}
	h.RespondJSON(w, http.StatusOK, runs)
}

// GetQueueStats handles GET /admin/queue
// @Summary Get notification queue statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.QueueStats "Queue statistics"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/queue [get]
func (h *AdminHandler) GetQueueStats(w http.ResponseWriter, r *http.Request) {
	queues, err := h.inspector.Queues()
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to inspect queue")
		return
	}
	// The queue only exists after the first enqueue
	if !slices.Contains(queues, h.queue) {
		h.RespondJSON(w, http.StatusOK, models.QueueStats{Queue: h.queue})
		return
	}

	info, err := h.inspector.GetQueueInfo(h.queue)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to inspect queue")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.QueueStats{
		Queue:     info.Queue,
		Pending:   info.Pending,
		Active:    info.Active,
		Scheduled: info.Scheduled,
		Retry:     info.Retry,
		Archived:  info.Archived,
		Processed: info.Processed,
		Failed:    info.Failed,
		Paused:    info.Paused,
	})
}
