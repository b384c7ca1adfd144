package handlers

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/aura-academy/portal/libs/auth/middleware"
	"github.com/aura-academy/portal/libs/handlers"
	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ActivityService is the interface that wraps methods for the activity log
type ActivityService interface {
	// Log records an action of a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "ipAddress" is the client address.
	// "req" is the action and its metadata.
	//
	// Returns the stored entry and an error if any.
	Log(ctx context.Context, userID int, ipAddress string, req *models.LogActivityRequest) (*models.ActivityLog, error)
	// List retrieves a page of activity, optionally for one user
	List(ctx context.Context, userID *int, page, count int) ([]models.ActivityLog, error)
}

// ActivityHandler handles HTTP requests for the activity log
type ActivityHandler struct {
	handlers.BaseHandler
	service ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(svc ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		service:     svc,
		BaseHandler: handlers.BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers the activity logging route
func (h *ActivityHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Post("/activity", h.Log)
}

// RegisterAdminRoutes registers the activity listing route
func (h *ActivityHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/admin/activity", h.List)
}

// Log handles POST /activity
// @Summary Log activity
// @Tags activity
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.LogActivityRequest true "Activity"
// @Success 201 {object} models.ActivityLog "Stored entry"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /activity [post]
func (h *ActivityHandler) Log(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	var req models.LogActivityRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.service.Log(r.Context(), userID, clientIP(r), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to log activity")
		return
	}
	h.RespondJSON(w, http.StatusCreated, entry)
}

// List handles GET /admin/activity
// @Summary List activity
// @Tags admin-activity
// @Produce json
// @Security ApiKeyAuth
// @Param userId query int false "Filter by user"
// @Param page query int false "Page number (default: 1)"
// @Param count query int false "Items per page (default: 10)"
// @Success 200 {array} models.ActivityLog "Activity"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/activity [get]
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	var userID *int
	if s := r.URL.Query().Get("userId"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil {
			h.RespondError(w, http.StatusBadRequest, "invalid userId")
			return
		}
		userID = &id
	}
	page, count := parsePagination(r)

	logs, err := h.service.List(r.Context(), userID, page, count)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to list activity")
		return
	}
	h.RespondJSON(w, http.StatusOK, logs)
}

// clientIP returns the first forwarded address, or the remote host
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
