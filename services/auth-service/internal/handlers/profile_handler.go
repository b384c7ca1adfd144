package handlers

import (
	"context"
	"net/http"

	"github.com/aura-academy/portal/libs/auth/middleware"
	"github.com/aura-academy/portal/libs/handlers"
	"github.com/aura-academy/portal/services/auth-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProfileService is the interface that wraps methods for the signed-in user's account
type ProfileService interface {
	// Method GetProfile retrieves the account of a user.
	//
	// "ctx" is the context for the request.
	// "userID" identifies the signed-in user.
	GetProfile(ctx context.Context, userID int) (*models.ProfileResponse, error)
	// Method UpdateProfile changes the display name and returns the updated account.
	//
	// "ctx" is the context for the request.
	// "userID" identifies the signed-in user.
	// "req" contains the new full name.
	UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.ProfileResponse, error)
	// Method ChangePassword replaces the password and revokes every refresh token.
	//
	// "ctx" is the context for the request.
	// "userID" identifies the signed-in user.
	// "req" contains the current password and the new one with its confirmation.
	ChangePassword(ctx context.Context, userID int, req *models.ChangePasswordRequest) error
}

// ProfileHandler handles /me requests
type ProfileHandler struct {
	handlers.BaseHandler
	profileService ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    handlers.BaseHandler{Logger: logger},
		profileService: profileService,
	}
}

// RegisterRoutes registers profile routes behind authMiddleware
func (h *ProfileHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/me", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetProfile)
		r.Patch("/", h.UpdateProfile)
		r.Put("/password", h.ChangePassword)
	})
}

// GetProfile handles GET /me
// @Summary Get the signed-in account
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.ProfileResponse "Account"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /me [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get profile")
		return
	}
	h.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PATCH /me
// @Summary Update the signed-in account
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.UpdateProfileRequest true "Profile"
// @Success 200 {object} models.ProfileResponse "Account"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /me [patch]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.UpdateProfileRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to update profile")
		return
	}
	h.RespondJSON(w, http.StatusOK, profile)
}

// ChangePassword handles PUT /me/password
// @Summary Change password
// @Description Requires the current password; signs out every session
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.ChangePasswordRequest true "Passwords"
// @Success 200 {object} map[string]string "Password changed"
// @Failure 400 {object} map[string]string "Invalid password"
// @Failure 401 {object} map[string]string "Wrong current password"
// @Router /me/password [put]
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.ChangePasswordRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.profileService.ChangePassword(r.Context(), userID, &req); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to change password")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}
