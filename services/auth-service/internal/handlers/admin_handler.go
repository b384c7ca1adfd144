package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/aura-academy/portal/libs/auth/middleware"
	"github.com/aura-academy/portal/libs/handlers"
	"github.com/aura-academy/portal/services/auth-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps methods for admin account management
type AdminService interface {
	// Method ListUsers retrieves a page of accounts.
	//
	// "ctx" is the context for the request.
	// "page" and "count" select the page.
	// "role" optionally filters by role.
	// "search" optionally filters by e-mail or name.
	ListUsers(ctx context.Context, page, count int, role *models.Role, search string) ([]models.UserListItem, error)
	// Method CreateSetupToken issues a single-use admin setup token.
	//
	// "ctx" is the context for the request.
	// "createdBy" is the issuing admin.
	// "ttl" is how long the token stays valid; zero selects the default.
	CreateSetupToken(ctx context.Context, createdBy *int, ttl time.Duration) (*models.SetupToken, error)
	// Method Promote redeems a setup token, makes the user an admin and returns fresh tokens.
	//
	// "ctx" is the context for the request.
	// "userID" identifies the signed-in user.
	// "token" is the setup token.
	Promote(ctx context.Context, userID int, token string) (string, string, error)
}

// AdminHandler handles admin-related HTTP requests
type AdminHandler struct {
	handlers.BaseHandler
	adminService AdminService
	auth         *AuthHandler
}

// NewAdminHandler creates a new admin handler; auth sets the session cookies after a promotion
func NewAdminHandler(adminService AdminService, auth *AuthHandler, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  handlers.BaseHandler{Logger: logger},
		adminService: adminService,
		auth:         auth,
	}
}

// RegisterRoutes registers admin routes; the caller applies the admin role middleware
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/users", h.ListUsers)
		r.Post("/setup-tokens", h.CreateSetupToken)
	})
}

// RegisterSetupRoutes registers the promotion route, open to any signed-in user
func (h *AdminHandler) RegisterSetupRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Post("/admin-setup/promote", h.Promote)
}

// ListUsers handles GET /admin/users
// @Summary List accounts
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number (default: 1)"
// @Param count query int false "Items per page (default: 20)"
// @Param role query int false "Filter by role (1=student, 2=admin)"
// @Param search query string false "Search in e-mail and name"
// @Success 200 {array} models.UserListItem "Accounts"
// @Failure 400 {object} map[string]string "Invalid role"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, count := parsePagination(r)

	var role *models.Role
	if s := r.URL.Query().Get("role"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			h.RespondError(w, http.StatusBadRequest, "invalid role")
			return
		}
		v := models.Role(n)
		role = &v
	}

	users, err := h.adminService.ListUsers(r.Context(), page, count, role, r.URL.Query().Get("search"))
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to list users")
		return
	}
	h.RespondJSON(w, http.StatusOK, users)
}

// CreateSetupToken handles POST /admin/setup-tokens
// @Summary Issue an admin setup token
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateSetupTokenRequest false "Lifetime"
// @Success 201 {object} models.SetupToken "Setup token"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /admin/setup-tokens [post]
func (h *AdminHandler) CreateSetupToken(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSetupTokenRequest
	if r.ContentLength != 0 {
		if err := h.BindJSON(r, &req); err != nil {
			h.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var createdBy *int
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		createdBy = &userID
	}

	token, err := h.adminService.CreateSetupToken(r.Context(), createdBy, time.Duration(req.ValidHours)*time.Hour)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to create setup token")
		return
	}
	h.RespondJSON(w, http.StatusCreated, token)
}

// Promote handles POST /admin-setup/promote
// @Summary Redeem an admin setup token
// @Description Promotes the signed-in user to admin and returns tokens carrying the new role
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.PromoteAdminRequest true "Setup token"
// @Success 200 {object} tokenResponse "Promoted"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid or expired setup token"
// @Failure 409 {object} map[string]string "Already an admin"
// @Router /admin-setup/promote [post]
func (h *AdminHandler) Promote(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.PromoteAdminRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	accessToken, refreshToken, err := h.adminService.Promote(r.Context(), userID, req.Token)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to promote user")
		return
	}

	h.auth.setTokenCookies(w, accessToken, refreshToken)
	h.RespondJSON(w, http.StatusOK, tokenResponse{
		Message:      "promoted to admin",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}
