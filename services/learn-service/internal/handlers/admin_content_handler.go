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

// AdminContentService is the interface that wraps methods for the admin content editor
type AdminContentService interface {
	// List retrieves every content row with its latest version number
	//
	// "ctx" is the context for the request.
	//
	// Returns the list of content rows and an error if any.
	List(ctx context.Context) ([]models.CourseContentListItem, error)
	// Get retrieves one content row in canonical form
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the content row.
	//
	// Returns the content and an error if any.
	Get(ctx context.Context, id int) (*models.DayContentResponse, error)
	// GetDay retrieves the authoritative row of a day, or an empty creatable structure
	//
	// "ctx" is the context for the request.
	// "day" is the day number.
	//
	// Returns the content and an error if any.
	GetDay(ctx context.Context, day int) (*models.DayContentResponse, error)
	// Create stores new content for a day as its first version
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the editing admin.
	// "req" is the content to store.
	//
	// Returns the stored content with its version number and an error if any.
	Create(ctx context.Context, userID int, req *models.SaveContentRequest) (*models.SaveContentResponse, error)
	// Save overwrites the structure of a content row and records a new version
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the content row.
	// "userID" is the ID of the editing admin.
	// "req" is the content to store.
	//
	// Returns the stored content with its version number and an error if any.
	Save(ctx context.Context, id, userID int, req *models.SaveContentRequest) (*models.SaveContentResponse, error)
	// ApplyOperations runs editor operations against the stored structure and saves the result
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the content row.
	// "userID" is the ID of the editing admin.
	// "req" is the batch of operations.
	//
	// Returns the stored content with its version number and an error if any.
	ApplyOperations(ctx context.Context, id, userID int, req *models.ApplyOperationsRequest) (*models.SaveContentResponse, error)
	// Delete removes a content row and its versions
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the content row.
	//
	// Returns an error if any.
	Delete(ctx context.Context, id int) error
	// ListVersions retrieves the versions of a content row newest first
	//
	// "ctx" is the context for the request.
	// "contentID" is the ID of the content row.
	//
	// Returns the versions and an error if any.
	ListVersions(ctx context.Context, contentID int) ([]models.ContentVersionListItem, error)
	// RestoreVersion loads a version's content for the editor without saving it
	//
	// "ctx" is the context for the request.
	// "contentID" is the ID of the content row.
	// "versionNumber" is the version to load.
	//
	// Returns the version content and an error if any.
	RestoreVersion(ctx context.Context, contentID, versionNumber int) (*models.RestoredVersion, error)
}

// AdminContentHandler handles HTTP requests for the admin content editor
type AdminContentHandler struct {
	handlers.BaseHandler
	service AdminContentService
}

// NewAdminContentHandler creates a new admin content handler
func NewAdminContentHandler(svc AdminContentService, logger *zap.Logger) *AdminContentHandler {
	return &AdminContentHandler{
		service:     svc,
		BaseHandler: handlers.BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all admin content handler routes
func (h *AdminContentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/content", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/days/{day}", h.GetDay)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Save)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/operations", h.ApplyOperations)
		r.Get("/{id}/versions", h.ListVersions)
		r.Post("/{id}/versions/{version}/restore", h.RestoreVersion)
	})
}

// List handles GET /admin/content
// @Summary List content rows
// @Tags admin-content
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.CourseContentListItem "Content rows"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/content [get]
func (h *AdminContentHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to list content")
		return
	}
	h.RespondJSON(w, http.StatusOK, items)
}

// Get handles GET /admin/content/{id}
// @Summary Get content row
// @Tags admin-content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Content ID"
// @Success 200 {object} models.DayContentResponse "Content"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Content not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/content/{id} [get]
func (h *AdminContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get content")
		return
	}
	h.RespondJSON(w, http.StatusOK, resp)
}

// GetDay handles GET /admin/content/days/{day}
// @Summary Get editor content for a day
// @Description Returns the most recently updated row of the day, published or not, or an empty structure with creatable=true
// @Tags admin-content
// @Produce json
// @Security ApiKeyAuth
// @Param day path int true "Day number"
// @Success 200 {object} models.DayContentResponse "Content"
// @Failure 400 {object} map[string]string "Invalid day"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/content/days/{day} [get]
func (h *AdminContentHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	day, ok := h.pathID(w, r, "day")
	if !ok {
		return
	}

	resp, err := h.service.GetDay(r.Context(), day)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get day content")
		return
	}
	h.RespondJSON(w, http.StatusOK, resp)
}

// Create handles POST /admin/content
// @Summary Create content for a day
// @Tags admin-content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.SaveContentRequest true "Content"
// @Success 201 {object} models.SaveContentResponse "Created content"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/content [post]
func (h *AdminContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	var req models.SaveContentRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to create content")
		return
	}
	h.RespondJSON(w, http.StatusCreated, resp)
}

// Save handles PUT /admin/content/{id}
// @Summary Save whole content structure
// @Description Renumbers, serialises and writes the structure in one request and records a new version
// @Tags admin-content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Content ID"
// @Param request body models.SaveContentRequest true "Content"
// @Success 200 {object} models.SaveContentResponse "Saved content"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Content not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/content/{id} [put]
func (h *AdminContentHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.SaveContentRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Save(r.Context(), id, userID, &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to save content")
		return
	}
	h.RespondJSON(w, http.StatusOK, resp)
}

// ApplyOperations handles POST /admin/content/{id}/operations
// @Summary Apply editor operations
// @Tags admin-content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Content ID"
// @Param request body models.ApplyOperationsRequest true "Operations"
// @Success 200 {object} models.SaveContentResponse "Saved content"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Content not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/content/{id}/operations [post]
func (h *AdminContentHandler) ApplyOperations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.ApplyOperationsRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.ApplyOperations(r.Context(), id, userID, &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to apply operations")
		return
	}
	h.RespondJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /admin/content/{id}
// @Summary Delete content row
// @Tags admin-content
// @Security ApiKeyAuth
// @Param id path int true "Content ID"
// @Success 204 "No content"
// @Failure 404 {object} map[string]string "Content not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/content/{id} [delete]
func (h *AdminContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to delete content")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListVersions handles GET /admin/content/{id}/versions
// @Summary List content versions
// @Tags admin-content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Content ID"
// @Success 200 {array} models.ContentVersionListItem "Versions, newest first"
// @Failure 404 {object} map[string]string "Content not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/content/{id}/versions [get]
func (h *AdminContentHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	versions, err := h.service.ListVersions(r.Context(), id)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to list versions")
		return
	}
	h.RespondJSON(w, http.StatusOK, versions)
}

// RestoreVersion handles POST /admin/content/{id}/versions/{version}/restore
// @Summary Load a version into the editor
// @Description Returns the version content without writing; saving it creates a new version
// @Tags admin-content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Content ID"
// @Param version path int true "Version number"
// @Success 200 {object} models.RestoredVersion "Version content"
// @Failure 404 {object} map[string]string "Version not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/content/{id}/versions/{version}/restore [post]
func (h *AdminContentHandler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	version, ok := h.pathID(w, r, "version")
	if !ok {
		return
	}

	restored, err := h.service.RestoreVersion(r.Context(), id, version)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to restore version")
		return
	}
	h.RespondJSON(w, http.StatusOK, restored)
}

// pathID parses a positive integer path parameter, writing a 400 on failure
func (h *AdminContentHandler) pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		h.RespondError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
