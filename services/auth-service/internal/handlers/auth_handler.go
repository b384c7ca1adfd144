package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aura-academy/portal/libs/handlers"
	"github.com/aura-academy/portal/services/auth-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register validates the sign-up data, creates a student and returns access and refresh tokens.
	//
	// "ctx" is the context for the request.
	// "req" contains email, full name, password and its confirmation.
	//
	// Returns ErrValidation for bad input and ErrEmailTaken for a known address.
	Register(ctx context.Context, req *models.RegisterRequest) (string, string, error)
	// Method Login checks the credentials and returns access and refresh tokens.
	//
	// "ctx" is the context for the request.
	// "req" contains email and password.
	//
	// Returns ErrInvalidCredentials when the email or password is wrong.
	Login(ctx context.Context, req *models.LoginRequest) (string, string, error)
	// Method Refresh validates a refresh token and returns a new access token and refresh token.
	//
	// "ctx" is the context for the request.
	// "refreshToken" is the token being rotated.
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	// Method Logout revokes a refresh token.
	//
	// "ctx" is the context for the request.
	// "refreshToken" is the token being revoked.
	Logout(ctx context.Context, refreshToken string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	handlers.BaseHandler
	authService   AuthService
	accessMaxAge  time.Duration
	refreshMaxAge time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService AuthService,
	logger *zap.Logger,
	accessMaxAge time.Duration,
	refreshMaxAge time.Duration,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:   handlers.BaseHandler{Logger: logger},
		authService:   authService,
		accessMaxAge:  accessMaxAge,
		refreshMaxAge: refreshMaxAge,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
	})
}

// tokenResponse carries the tokens for clients that do not use cookies
type tokenResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register handles POST /auth/register
// @Summary Register a new student
// @Description Creates a student account, enrolls it in the course and returns access and refresh tokens (also set as HTTP-only cookies).
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Sign-up data"
// @Success 201 {object} tokenResponse "User registered successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "Email already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	accessToken, refreshToken, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to register user")
		return
	}

	h.setTokenCookies(w, accessToken, refreshToken)
	h.RespondJSON(w, http.StatusCreated, tokenResponse{
		Message:      "user registered successfully",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate with email and password. Returns access and refresh tokens (also set as HTTP-only cookies).
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} tokenResponse "Login successful"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	accessToken, refreshToken, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to login user")
		return
	}

	h.setTokenCookies(w, accessToken, refreshToken)
	h.RespondJSON(w, http.StatusOK, tokenResponse{
		Message:      "login successful",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Refresh handles POST /auth/refresh
// @Summary Refresh access token
// @Description Rotate the refresh token. The token can be provided in the request body or as a cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RefreshRequest false "Refresh token request (optional if using cookie)"
// @Success 200 {object} tokenResponse "Tokens refreshed successfully"
// @Failure 400 {object} map[string]string "Refresh token required"
// @Failure 401 {object} map[string]string "Invalid or expired token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := h.refreshTokenFrom(r)
	if refreshToken == "" {
		h.RespondError(w, http.StatusBadRequest, "refresh token required")
		return
	}

	accessToken, newRefreshToken, err := h.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.clearTokenCookies(w)
		respondServiceError(&h.BaseHandler, w, err, "failed to refresh tokens")
		return
	}

	h.setTokenCookies(w, accessToken, newRefreshToken)
	h.RespondJSON(w, http.StatusOK, tokenResponse{
		Message:      "tokens refreshed successfully",
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	})
}

// Logout handles POST /auth/logout
// @Summary Logout
// @Description Revoke the refresh token and clear the session cookies
// @Tags auth
// @Accept json
// @Param request body models.RefreshRequest false "Refresh token request (optional if using cookie)"
// @Success 204 "Logged out"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), h.refreshTokenFrom(r)); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to logout")
		return
	}
	h.clearTokenCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// refreshTokenFrom reads the refresh token from the body, falling back to the cookie
func (h *AuthHandler) refreshTokenFrom(r *http.Request) string {
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// setTokenCookies sets access and refresh tokens as HTTP-only cookies
func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.accessMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.refreshMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
