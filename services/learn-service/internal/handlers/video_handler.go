package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/aura-academy/portal/libs/auth/middleware"
	"github.com/aura-academy/portal/libs/handlers"
	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// VideoService is the interface that wraps methods for video playback state
type VideoService interface {
	// SaveProgress upserts the resume position of a user in a video
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "videoID" is the ID of the video.
	// "req" is the playback state reported by the player.
	//
	// Returns the stored progress and an error if any.
	SaveProgress(ctx context.Context, userID int, videoID string, req *models.SaveProgressRequest) (*models.VideoProgress, error)
	// GetProgress retrieves the resume position of a user in a video
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "videoID" is the ID of the video.
	//
	// Returns the progress, position 0 when none is stored, and an error if any.
	GetProgress(ctx context.Context, userID int, videoID string) (*models.VideoProgress, error)
	// ToggleBookmark adds or removes the bookmark at a timestamp
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "videoID" is the ID of the video.
	// "req" is the timestamp and note.
	//
	// Returns the bookmark state after the toggle and an error if any.
	ToggleBookmark(ctx context.Context, userID int, videoID string, req *models.ToggleBookmarkRequest) (*models.ToggleBookmarkResponse, error)
	// PutBookmark creates the bookmark at a timestamp or replaces its note
	//
	// Returns the stored bookmark and an error if any.
	PutBookmark(ctx context.Context, userID int, videoID string, timestamp float64, req *models.PutBookmarkRequest) (*models.Bookmark, error)
	// RemoveBookmark deletes the bookmark at a timestamp; a missing bookmark is not an error
	RemoveBookmark(ctx context.Context, userID int, videoID string, timestamp float64) error
	// ListBookmarks retrieves a user's bookmarks in a video ordered by timestamp
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "videoID" is the ID of the video.
	//
	// Returns the bookmarks and an error if any.
	ListBookmarks(ctx context.Context, userID int, videoID string) ([]models.Bookmark, error)
	// ListVideos retrieves the video catalogue
	//
	// "ctx" is the context for the request.
	// "day" optionally restricts the list to one course day.
	//
	// Returns the videos and an error if any.
	ListVideos(ctx context.Context, day *int) ([]models.VideoContent, error)
	// CreateVideo catalogues a video
	//
	// "ctx" is the context for the request.
	// "req" is the video to catalogue.
	//
	// Returns the catalogued video and an error if any.
	CreateVideo(ctx context.Context, req *models.CreateVideoRequest) (*models.VideoContent, error)
	// DeleteVideo removes a catalogued video
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the video.
	//
	// Returns an error if any.
	DeleteVideo(ctx context.Context, id string) error
}

// VideoHandler handles HTTP requests for video progress, bookmarks and the video catalogue
type VideoHandler struct {
	handlers.BaseHandler
	service VideoService
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(svc VideoService, logger *zap.Logger) *VideoHandler {
	return &VideoHandler{
		service:     svc,
		BaseHandler: handlers.BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers the student video routes
func (h *VideoHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/videos", h.ListVideos)
		r.Get("/videos/{videoId}/progress", h.GetProgress)
		r.Put("/videos/{videoId}/progress", h.SaveProgress)
		r.Get("/videos/{videoId}/bookmarks", h.ListBookmarks)
		r.Post("/videos/{videoId}/bookmarks/toggle", h.ToggleBookmark)
		r.Put("/videos/{videoId}/bookmarks/{timestamp}", h.PutBookmark)
		r.Delete("/videos/{videoId}/bookmarks/{timestamp}", h.RemoveBookmark)
		r.Post("/save-video-progress", h.SaveVideoProgress)
	})
}

// RegisterAdminRoutes registers the video catalogue management routes
func (h *VideoHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/admin/videos", func(r chi.Router) {
		r.Post("/", h.CreateVideo)
		r.Delete("/{id}", h.DeleteVideo)
	})
}

// ListVideos handles GET /videos
// @Summary List videos
// @Tags videos
// @Produce json
// @Security ApiKeyAuth
// @Param day query int false "Course day"
// @Success 200 {array} models.VideoContent "Videos"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /videos [get]
func (h *VideoHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	var day *int
	if dayStr := r.URL.Query().Get("day"); dayStr != "" {
		d, err := strconv.Atoi(dayStr)
		if err != nil || d < 1 {
			h.RespondError(w, http.StatusBadRequest, "invalid day")
			return
		}
		day = &d
	}

	videos, err := h.service.ListVideos(r.Context(), day)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to list videos")
		return
	}
	h.RespondJSON(w, http.StatusOK, videos)
}

// GetProgress handles GET /videos/{videoId}/progress
// @Summary Get video progress
// @Tags videos
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "Video ID"
// @Success 200 {object} models.VideoProgress "Progress"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /videos/{videoId}/progress [get]
func (h *VideoHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	progress, err := h.service.GetProgress(r.Context(), userID, chi.URLParam(r, "videoId"))
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get video progress")
		return
	}
	h.RespondJSON(w, http.StatusOK, progress)
}

// SaveProgress handles PUT /videos/{videoId}/progress
// @Summary Save video progress
// @Description Upserts the resume position. Percentage is clamped to 0..100 and completion is sticky.
// @Tags videos
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "Video ID"
// @Param request body models.SaveProgressRequest true "Playback state"
// @Success 200 {object} models.VideoProgress "Progress"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /videos/{videoId}/progress [put]
func (h *VideoHandler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	var req models.SaveProgressRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	progress, err := h.service.SaveProgress(r.Context(), userID, chi.URLParam(r, "videoId"), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to save video progress")
		return
	}
	h.RespondJSON(w, http.StatusOK, progress)
}

// SaveVideoProgress handles POST /save-video-progress
// @Summary Save video progress (video id in body)
// @Tags videos
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.SaveVideoProgressRequest true "Playback state"
// @Success 200 {object} models.VideoProgress "Progress"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /save-video-progress [post]
func (h *VideoHandler) SaveVideoProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	var req models.SaveVideoProgressRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	progress, err := h.service.SaveProgress(r.Context(), userID, req.VideoID, &req.SaveProgressRequest)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to save video progress")
		return
	}
	h.RespondJSON(w, http.StatusOK, progress)
}

// ListBookmarks handles GET /videos/{videoId}/bookmarks
// @Summary List bookmarks
// @Tags videos
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "Video ID"
// @Success 200 {array} models.Bookmark "Bookmarks ordered by timestamp"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /videos/{videoId}/bookmarks [get]
func (h *VideoHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	bookmarks, err := h.service.ListBookmarks(r.Context(), userID, chi.URLParam(r, "videoId"))
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to list bookmarks")
		return
	}
	h.RespondJSON(w, http.StatusOK, bookmarks)
}

// ToggleBookmark handles POST /videos/{videoId}/bookmarks/toggle
// @Summary Toggle bookmark
// @Description Adds a bookmark at the timestamp rounded to whole seconds, or removes the existing one
// @Tags videos
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "Video ID"
// @Param request body models.ToggleBookmarkRequest true "Timestamp"
// @Success 200 {object} models.ToggleBookmarkResponse "Bookmark state"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /videos/{videoId}/bookmarks/toggle [post]
func (h *VideoHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	var req models.ToggleBookmarkRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.ToggleBookmark(r.Context(), userID, chi.URLParam(r, "videoId"), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to toggle bookmark")
		return
	}
	h.RespondJSON(w, http.StatusOK, resp)
}

// PutBookmark handles PUT /videos/{videoId}/bookmarks/{timestamp}
// @Summary Set bookmark
// @Description Creates the bookmark at the timestamp rounded to whole seconds, or replaces its note
// @Tags videos
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "Video ID"
// @Param timestamp path number true "Playback position in seconds"
// @Param request body models.PutBookmarkRequest false "Note"
// @Success 200 {object} models.Bookmark "Bookmark"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /videos/{videoId}/bookmarks/{timestamp} [put]
func (h *VideoHandler) PutBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	timestamp, ok := parseTimestamp(r)
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid timestamp")
		return
	}

	var req models.PutBookmarkRequest
	if r.ContentLength != 0 {
		if err := h.BindJSON(r, &req); err != nil {
			h.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	bookmark, err := h.service.PutBookmark(r.Context(), userID, chi.URLParam(r, "videoId"), timestamp, &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to save bookmark")
		return
	}
	h.RespondJSON(w, http.StatusOK, bookmark)
}

// RemoveBookmark handles DELETE /videos/{videoId}/bookmarks/{timestamp}
// @Summary Remove bookmark
// @Tags videos
// @Security ApiKeyAuth
// @Param videoId path string true "Video ID"
// @Param timestamp path number true "Playback position in seconds"
// @Success 204 "No content"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /videos/{videoId}/bookmarks/{timestamp} [delete]
func (h *VideoHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	timestamp, ok := parseTimestamp(r)
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid timestamp")
		return
	}

	if err := h.service.RemoveBookmark(r.Context(), userID, chi.URLParam(r, "videoId"), timestamp); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to remove bookmark")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseTimestamp reads a finite, non-negative playback position from the path
func parseTimestamp(r *http.Request) (float64, bool) {
	ts, err := strconv.ParseFloat(chi.URLParam(r, "timestamp"), 64)
	if err != nil || ts < 0 || math.IsInf(ts, 0) || math.IsNaN(ts) {
		return 0, false
	}
	return ts, true
}

// CreateVideo handles POST /admin/videos
// @Summary Catalogue a video
// @Tags admin-videos
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateVideoRequest true "Video"
// @Success 201 {object} models.VideoContent "Video"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/videos [post]
func (h *VideoHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVideoRequest
	if err := h.BindJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	video, err := h.service.CreateVideo(r.Context(), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to create video")
		return
	}
	h.RespondJSON(w, http.StatusCreated, video)
}

// DeleteVideo handles DELETE /admin/videos/{id}
// @Summary Delete a catalogued video
// @Tags admin-videos
// @Security ApiKeyAuth
// @Param id path string true "Video ID"
// @Success 204 "No content"
// @Failure 404 {object} map[string]string "Video not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/videos/{id} [delete]
func (h *VideoHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteVideo(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to delete video")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
