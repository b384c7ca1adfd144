package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aura-academy/portal/libs/auth/middleware"
	"github.com/aura-academy/portal/libs/handlers"
	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReviewService is the interface that wraps methods for course reviews
type ReviewService interface {
	// Submit stores a review pending moderation
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the reviewer.
	// "req" is the review.
	//
	// Returns the stored review and an error if any.
	Submit(ctx context.Context, userID int, req *models.SubmitReviewRequest) (*models.Review, error)
	// ListPublished retrieves a page of published reviews
	ListPublished(ctx context.Context, page, count int) ([]models.Review, error)
	// ListAll retrieves a page of every review
	ListAll(ctx context.Context, page, count int) ([]models.Review, error)
	// SetPublished shows or hides a review
	SetPublished(ctx context.Context, id int, published bool) error
	// Respond attaches the instructor response to a review
	//
	// "ctx" is the context for the request.
	// "reviewID" is the ID of the review.
	// "responderID" is the ID of the responding admin.
	// "req" is the response.
	//
	// Returns the stored response and an error if the review already has one.
	Respond(ctx context.Context, reviewID, responderID int, req *models.RespondReviewRequest) (*models.InstructorResponse, error)
}

// ReviewHandler handles HTTP requests for course reviews
type ReviewHandler struct {
	handlers.BaseHandler
	service ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(svc ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service:     svc,
		BaseHandler: handlers.BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers the public and student review routes
func (h *ReviewHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/reviews", h.ListPublished)
	r.With(authMiddleware).Post("/reviews", h.Submit)
}

// RegisterAdminRoutes registers the review moderation routes
func (h *ReviewHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/admin/reviews", func(r chi.Router) {
		r.Get("/", h.ListAll)
		r.Patch("/{id}/publish", h.SetPublished)
		r.Post("/{id}/respond", h.Respond)
	})
}

// ListPublished handles GET /reviews
// @Summary List published reviews
// @Tags reviews
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param count query int false "Items per page (default: 10)"
// @Success 200 {array} models.Review "Reviews"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reviews [get]
func (h *ReviewHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	page, count := parsePagination(r)
	reviews, err := h.service.ListPublished(r.Context(), page, count)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to list reviews")
		return
	}
	h.RespondJSON(w, http.StatusOK, reviews)
}

// Submit handles POST /reviews
// @Summary Submit review
// @Tags reviews
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.SubmitReviewRequest true "Review"
// @Success 201 {object} models.Review "Stored review"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reviews [post]
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	var req models.SubmitReviewRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.service.Submit(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to submit review")
		return
	}
	h.RespondJSON(w, http.StatusCreated, review)
}

// ListAll handles GET /admin/reviews
// @Summary List all reviews
// @Tags admin-reviews
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number (default: 1)"
// @Param count query int false "Items per page (default: 10)"
// @Success 200 {array} models.Review "Reviews"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/reviews [get]
func (h *ReviewHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, count := parsePagination(r)
	reviews, err := h.service.ListAll(r.Context(), page, count)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to list reviews")
		return
	}
	h.RespondJSON(w, http.StatusOK, reviews)
}

// SetPublished handles PATCH /admin/reviews/{id}/publish
// @Summary Publish or hide review
// @Tags admin-reviews
// @Accept json
// @Security ApiKeyAuth
// @Param id path int true "Review ID"
// @Param request body models.PublishReviewRequest true "Visibility"
// @Success 204 "No content"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Review not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/reviews/{id}/publish [patch]
func (h *ReviewHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid review id")
		return
	}

	var req models.PublishReviewRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.SetPublished(r.Context(), id, req.IsPublished); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to update review")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Respond handles POST /admin/reviews/{id}/respond
// @Summary Respond to review
// @Tags admin-reviews
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Review ID"
// @Param request body models.RespondReviewRequest true "Response"
// @Success 201 {object} models.InstructorResponse "Stored response"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Review not found"
// @Failure 409 {object} map[string]string "Already responded"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/reviews/{id}/respond [post]
func (h *ReviewHandler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid review id")
		return
	}

	var req models.RespondReviewRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Respond(r.Context(), id, userID, &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to respond to review")
		return
	}
	h.RespondJSON(w, http.StatusCreated, resp)
}
