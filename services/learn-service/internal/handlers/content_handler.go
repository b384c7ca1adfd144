package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aura-academy/portal/libs/auth/middleware"
	"github.com/aura-academy/portal/libs/handlers"
	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"github.com/aura-academy/portal/services/learn-service/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ContentService is the interface that wraps methods for student course content
type ContentService interface {
	// GetDay retrieves the canonical content of a course day
	//
	// "ctx" is the context for the request.
	// "day" is the day number.
	// "viewer" identifies the reader; admins see drafts and locked days.
	//
	// Returns the day content and an error if the day is invalid or locked.
	// Store failures are reported through the Status field.
	GetDay(ctx context.Context, day int, viewer services.Viewer) (*models.DayContentResponse, error)
	// ListDays retrieves every course day with its unlock and completion state
	//
	// "ctx" is the context for the request.
	// "viewer" identifies the reader.
	//
	// Returns the list of days and an error if any.
	ListDays(ctx context.Context, viewer services.Viewer) ([]models.DaySummary, error)
	// ToggleDayCompletion toggles the completion mark of a day for a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "day" is the day number.
	//
	// Returns the new completion state and an error if any.
	ToggleDayCompletion(ctx context.Context, userID, day int) (*models.ToggleCompletionResponse, error)
	// SetDayCompletion sets the completion mark of a day for a user to the given state
	//
	// Returns the completion state and an error if the day is invalid or locked.
	SetDayCompletion(ctx context.Context, userID, day int, completed bool) (*models.ToggleCompletionResponse, error)
}

// ContentHandler handles HTTP requests for student course content
type ContentHandler struct {
	handlers.BaseHandler
	service ContentService
}

// NewContentHandler creates a new content handler
func NewContentHandler(svc ContentService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		service:     svc,
		BaseHandler: handlers.BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all content handler routes
func (h *ContentHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/days", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.ListDays)
		r.Get("/{day}", h.GetDay)
		r.Post("/{day}/complete", h.ToggleDayCompletion)
		r.Put("/{day}/completion", h.SetDayCompletion)
	})
}

// ListDays handles GET /days
// @Summary List course days
// @Description Get every course day with unlock and completion flags for the current user
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.DaySummary "List of days"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /days [get]
func (h *ContentHandler) ListDays(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromRequest(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	days, err := h.service.ListDays(r.Context(), viewer)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to list days")
		return
	}

	h.RespondJSON(w, http.StatusOK, days)
}

// GetDay handles GET /days/{day}
// @Summary Get day content
// @Description Get the canonical sections and blocks of a course day. Read failures return status "error" with empty sections.
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param day path int true "Day number"
// @Success 200 {object} models.DayContentResponse "Day content"
// @Failure 400 {object} map[string]string "Invalid day"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Day is locked"
// @Router /days/{day} [get]
func (h *ContentHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromRequest(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid day")
		return
	}

	resp, err := h.service.GetDay(r.Context(), day, viewer)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get day content")
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}

// ToggleDayCompletion handles POST /days/{day}/complete
// @Summary Toggle day completion
// @Description Mark an unlocked day as completed, or clear the mark if already set
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param day path int true "Day number"
// @Success 200 {object} models.ToggleCompletionResponse "Completion state"
// @Failure 400 {object} map[string]string "Invalid day"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Day is locked"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /days/{day}/complete [post]
func (h *ContentHandler) ToggleDayCompletion(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid day")
		return
	}

	resp, err := h.service.ToggleDayCompletion(r.Context(), userID, day)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to toggle day completion")
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}

// SetDayCompletion handles PUT /days/{day}/completion
// @Summary Set day completion
// @Description Set the completion mark of an unlocked day; repeating the call changes nothing
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param day path int true "Day number"
// @Param request body models.SetCompletionRequest true "Completion state"
// @Success 200 {object} models.ToggleCompletionResponse "Completion state"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Day is locked"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /days/{day}/completion [put]
func (h *ContentHandler) SetDayCompletion(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid day")
		return
	}

	var req models.SetCompletionRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.SetDayCompletion(r.Context(), userID, day, *req.Completed)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to set day completion")
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}

func viewerFromRequest(r *http.Request) (services.Viewer, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return services.Viewer{}, false
	}
	return services.Viewer{UserID: userID, IsAdmin: middleware.IsAdmin(r.Context())}, true
}
