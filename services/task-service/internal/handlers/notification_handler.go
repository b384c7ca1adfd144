package handlers

import (
	"context"
	"net/http"

	"github.com/aura-academy/portal/libs/handlers"
	"github.com/aura-academy/portal/services/task-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NotificationSender is the interface that wraps the e-mail queueing operation
type NotificationSender interface {
	// Method Send stores a notification and queues it for delivery.
	//
	// "ctx" parameter is used to specify the context.
	// "req" parameter holds the template slug, recipient and params.
	//
	// An unknown template or a blank recipient returns ErrValidation.
	Send(ctx context.Context, req *models.SendEmailRequest) (*models.SendEmailResponse, error)
}

// NotificationHandler accepts e-mail requests from sibling services and admins
type NotificationHandler struct {
	handlers.BaseHandler
	sender NotificationSender
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(sender NotificationSender, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		sender:      sender,
	}
}

// RegisterRoutes registers notification routes; the caller applies API key or admin authentication
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/notifications/email", h.SendEmail)
}

// SendEmail handles POST /notifications/email
// @Summary Queue a templated e-mail
// @Description Stores the notification and hands it to the worker. Requires API key or admin role.
// @Tags notifications
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.SendEmailRequest true "E-mail request"
// @Success 202 {object} models.SendEmailResponse "Queued"
// @Failure 400 {object} map[string]string "Invalid request body or unknown template"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /notifications/email [post]
func (h *NotificationHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req models.SendEmailRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.sender.Send(r.Context(), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to queue e-mail")
		return
	}
	h.RespondJSON(w, http.StatusAccepted, resp)
}
