package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/aura-academy/portal/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TokenCleaner removes refresh tokens older than maxAge
type TokenCleaner interface {
	CleanExpiredTokens(ctx context.Context, maxAge time.Duration) (int, error)
}

// TokenCleaningHandler handles token cleaning requests from the scheduler
type TokenCleaningHandler struct {
	handlers.BaseHandler
	cleaner            TokenCleaner
	refreshTokenExpiry time.Duration
}

// NewTokenCleaningHandler creates a new token cleaning handler
func NewTokenCleaningHandler(
	cleaner TokenCleaner,
	logger *zap.Logger,
	refreshTokenExpiry time.Duration,
) *TokenCleaningHandler {
	return &TokenCleaningHandler{
		BaseHandler:        handlers.BaseHandler{Logger: logger},
		cleaner:            cleaner,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// RegisterRoutes registers token cleaning handler routes; the caller applies API key protection
func (h *TokenCleaningHandler) RegisterRoutes(r chi.Router) {
	r.Post("/internal/tokens/clean", h.CleanTokens)
}

// CleanTokens handles POST /internal/tokens/clean
// @Summary Clean expired tokens
// @Description Removes all refresh tokens older than the refresh token expiry
// @Tags internal
// @Produce json
// @Param X-API-Key header string true "API key"
// @Success 200 {object} map[string]int "Number of deleted tokens"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/tokens/clean [post]
func (h *TokenCleaningHandler) CleanTokens(w http.ResponseWriter, r *http.Request) {
	deletedCount, err := h.cleaner.CleanExpiredTokens(r.Context(), h.refreshTokenExpiry)
	if err != nil {
		h.Logger.Error("failed to delete expired tokens", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to delete expired tokens")
		return
	}

	// 0 deleted rows is not an error
	h.Logger.Info("token cleaning completed", zap.Int("deletedCount", deletedCount))
	h.RespondJSON(w, http.StatusOK, map[string]int{"deleted": deletedCount})
}
