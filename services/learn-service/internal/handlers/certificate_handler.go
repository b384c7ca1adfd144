package handlers

import (
	"context"
	"net/http"

	"github.com/aura-academy/portal/libs/auth/middleware"
	"github.com/aura-academy/portal/libs/handlers"
	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CertificateService is the interface that wraps methods for course certificates
type CertificateService interface {
	// Issue creates the user's certificate once every day is completed
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "req" carries the name printed on the certificate.
	//
	// Returns the certificate, whether it was created now, and an error if any.
	Issue(ctx context.Context, userID int, req *models.IssueCertificateRequest) (*models.Certificate, bool, error)
	// GetMine retrieves the certificate of a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the certificate and an error if any.
	GetMine(ctx context.Context, userID int) (*models.Certificate, error)
	// Verify looks up a certificate by its public code
	//
	// "ctx" is the context for the request.
	// "code" is the certificate code.
	//
	// Returns the verification result and an error if any.
	Verify(ctx context.Context, code string) (*models.CertificateVerification, error)
}

// CertificateHandler handles HTTP requests for certificates
type CertificateHandler struct {
	handlers.BaseHandler
	service CertificateService
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(svc CertificateService, logger *zap.Logger) *CertificateHandler {
	return &CertificateHandler{
		service:     svc,
		BaseHandler: handlers.BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all certificate handler routes
func (h *CertificateHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/verify/{code}", h.Verify)
	r.Route("/certificates", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Issue)
		r.Get("/me", h.GetMine)
	})
}

// Issue handles POST /certificates
// @Summary Issue certificate
// @Description Issues the course certificate once all days are completed. Returns the existing certificate when one was issued before.
// @Tags certificates
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.IssueCertificateRequest true "Recipient"
// @Success 200 {object} models.Certificate "Existing certificate"
// @Success 201 {object} models.Certificate "New certificate"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 409 {object} map[string]string "Course not completed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /certificates [post]
func (h *CertificateHandler) Issue(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	var req models.IssueCertificateRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cert, created, err := h.service.Issue(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to issue certificate")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.RespondJSON(w, status, cert)
}

// GetMine handles GET /certificates/me
// @Summary Get my certificate
// @Tags certificates
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Certificate "Certificate"
// @Failure 404 {object} map[string]string "No certificate"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /certificates/me [get]
func (h *CertificateHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	cert, err := h.service.GetMine(r.Context(), userID)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get certificate")
		return
	}
	h.RespondJSON(w, http.StatusOK, cert)
}

// Verify handles GET /verify/{code}
// @Summary Verify certificate
// @Description Public lookup of a certificate code. Unknown codes return valid=false.
// @Tags certificates
// @Produce json
// @Param code path string true "Certificate code"
// @Success 200 {object} models.CertificateVerification "Verification result"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /verify/{code} [get]
func (h *CertificateHandler) Verify(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Verify(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to verify certificate")
		return
	}
	h.RespondJSON(w, http.StatusOK, result)
}
