package handlers

import (
	"context"
	"net/http"

	"github.com/aura-academy/portal/libs/handlers"
	"github.com/aura-academy/portal/services/auth-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PasswordResetService is the interface that wraps the forgotten-password flow
type PasswordResetService interface {
	// Method RequestReset e-mails a reset link; unknown addresses succeed silently.
	//
	// "ctx" is the context for the request.
	// "email" is the address of the account.
	RequestReset(ctx context.Context, email string) error
	// Method ConfirmReset sets a new password with a reset code.
	//
	// "ctx" is the context for the request.
	// "req" contains the code and the new password with its confirmation.
	ConfirmReset(ctx context.Context, req *models.PasswordResetConfirmRequest) error
}

// BreachChecker is the interface that wraps the password breach lookup
type BreachChecker interface {
	// Method CheckPassword reports whether a password appears in known breaches.
	// It never fails; an unreachable corpus yields Checked=false.
	CheckPassword(ctx context.Context, password string) *models.CheckPasswordResponse
}

// NewsletterService is the interface that wraps newsletter sign-up
type NewsletterService interface {
	// Method Subscribe adds an address to the newsletter.
	//
	// "ctx" is the context for the request.
	// "req" contains the address and where the sign-up came from.
	Subscribe(ctx context.Context, req *models.SubscribeRequest) (*models.SubscribeResponse, error)
}

// AccountHandler handles the public account endpoints
type AccountHandler struct {
	handlers.BaseHandler
	resetService      PasswordResetService
	breachChecker     BreachChecker
	newsletterService NewsletterService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(
	resetService PasswordResetService,
	breachChecker BreachChecker,
	newsletterService NewsletterService,
	logger *zap.Logger,
) *AccountHandler {
	return &AccountHandler{
		BaseHandler:       handlers.BaseHandler{Logger: logger},
		resetService:      resetService,
		breachChecker:     breachChecker,
		newsletterService: newsletterService,
	}
}

// RegisterRoutes registers the public account routes
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Post("/password-reset/request", h.RequestReset)
	r.Post("/password-reset/confirm", h.ConfirmReset)
	r.Post("/check-password", h.CheckPassword)
	r.Post("/newsletter/subscribe", h.Subscribe)
}

// RequestReset handles POST /password-reset/request
// @Summary Request a password reset link
// @Description Always answers 202 so the response does not reveal whether the address has an account
// @Tags account
// @Accept json
// @Produce json
// @Param request body models.PasswordResetRequest true "Account e-mail"
// @Success 202 {object} map[string]string "Reset link sent if the account exists"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /password-reset/request [post]
func (h *AccountHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.resetService.RequestReset(r.Context(), req.Email); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to request password reset")
		return
	}
	h.RespondJSON(w, http.StatusAccepted, map[string]string{"message": "if the account exists, a reset link has been sent"})
}

// ConfirmReset handles POST /password-reset/confirm
// @Summary Set a new password with a reset code
// @Tags account
// @Accept json
// @Produce json
// @Param request body models.PasswordResetConfirmRequest true "Code and new password"
// @Success 200 {object} map[string]string "Password reset"
// @Failure 400 {object} map[string]string "Invalid password"
// @Failure 401 {object} map[string]string "Invalid or expired code"
// @Router /password-reset/confirm [post]
func (h *AccountHandler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetConfirmRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.resetService.ConfirmReset(r.Context(), &req); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to reset password")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "password reset"})
}

// CheckPassword handles POST /check-password
// @Summary Check a password against known breaches
// @Description k-anonymity lookup; only a hash prefix leaves the server
// @Tags account
// @Accept json
// @Produce json
// @Param request body models.CheckPasswordRequest true "Password"
// @Success 200 {object} models.CheckPasswordResponse "Result"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Router /check-password [post]
func (h *AccountHandler) CheckPassword(w http.ResponseWriter, r *http.Request) {
	var req models.CheckPasswordRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.RespondJSON(w, http.StatusOK, h.breachChecker.CheckPassword(r.Context(), req.Password))
}

// Subscribe handles POST /newsletter/subscribe
// @Summary Subscribe to the newsletter
// @Tags account
// @Accept json
// @Produce json
// @Param request body models.SubscribeRequest true "Address"
// @Success 200 {object} models.SubscribeResponse "Subscribed"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /newsletter/subscribe [post]
func (h *AccountHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req models.SubscribeRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.newsletterService.Subscribe(r.Context(), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to subscribe")
		return
	}
	h.RespondJSON(w, http.StatusOK, resp)
}
