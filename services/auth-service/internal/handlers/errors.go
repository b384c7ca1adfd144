package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aura-academy/portal/libs/handlers"
	"github.com/aura-academy/portal/services/auth-service/internal/models"
	"go.uber.org/zap"
)

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrEmailTaken),
		errors.Is(err, models.ErrAlreadyAdmin):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError logs err and writes it with the mapped status.
// Internal errors are not echoed to the client.
func respondServiceError(h *handlers.BaseHandler, w http.ResponseWriter, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error(msg, zap.Error(err))
		h.RespondError(w, status, msg)
		return
	}
	h.Logger.Debug(msg, zap.Error(err))
	h.RespondError(w, status, err.Error())
}

// parsePagination reads the page and count query parameters
func parsePagination(r *http.Request) (page, count int) {
	page = 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	count = 20
	if c, err := strconv.Atoi(r.URL.Query().Get("count")); err == nil && c > 0 {
		count = c
	}
	if count > 100 {
		count = 100
	}
	return page, count
}
