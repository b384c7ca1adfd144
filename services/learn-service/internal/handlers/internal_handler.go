package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/aura-academy/portal/libs/handlers"
	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DripService is the interface that wraps methods used by sibling services
type DripService interface {
	// Enroll records a new student
	//
	// "ctx" is the context for the request.
	// "req" carries the user id and contact details.
	//
	// Returns the enrollment and an error if any.
	Enroll(ctx context.Context, req *models.EnrollRequest) (*models.Enrollment, error)
	// ListUnlocking retrieves the students whose next day opens on date
	//
	// "ctx" is the context for the request.
	// "date" is the calendar day (UTC).
	//
	// Returns the students with the unlocked day and an error if any.
	ListUnlocking(ctx context.Context, date time.Time) ([]models.DripUnlock, error)
}

// InternalHandler handles service-to-service requests
type InternalHandler struct {
	handlers.BaseHandler
	service DripService
	now     func() time.Time
}

// NewInternalHandler creates a new internal handler
func NewInternalHandler(svc DripService, logger *zap.Logger) *InternalHandler {
	return &InternalHandler{
		service:     svc,
		BaseHandler: handlers.BaseHandler{Logger: logger},
		now:         time.Now,
	}
}

// RegisterRoutes registers the internal routes; the caller applies API key protection
func (h *InternalHandler) RegisterRoutes(r chi.Router) {
	r.Route("/internal", func(r chi.Router) {
		r.Post("/enrollments", h.Enroll)
		r.Get("/drip/unlocked", h.ListUnlocked)
	})
}

// Enroll handles POST /internal/enrollments
// @Summary Enroll student
// @Description Called by the auth service after registration. The enrollment date of an existing student is kept.
// @Tags internal
// @Accept json
// @Produce json
// @Param X-API-Key header string true "API key"
// @Param request body models.EnrollRequest true "Enrollment"
// @Success 201 {object} models.Enrollment "Enrollment"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/enrollments [post]
func (h *InternalHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req models.EnrollRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	enrollment, err := h.service.Enroll(r.Context(), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to enroll student")
		return
	}
	h.RespondJSON(w, http.StatusCreated, enrollment)
}

// ListUnlocked handles GET /internal/drip/unlocked
// @Summary List students with a day unlocking
// @Tags internal
// @Produce json
// @Param X-API-Key header string true "API key"
// @Param date query string false "Date as YYYY-MM-DD (default: today UTC)"
// @Success 200 {array} models.DripUnlock "Students"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/drip/unlocked [get]
func (h *InternalHandler) ListUnlocked(w http.ResponseWriter, r *http.Request) {
	date := h.now().UTC()
	if s := r.URL.Query().Get("date"); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			h.RespondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	unlocks, err := h.service.ListUnlocking(r.Context(), date)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to list unlocking students")
		return
	}
	h.RespondJSON(w, http.StatusOK, unlocks)
}
