package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VideoProgressRepository is the interface for video progress data access
type VideoProgressRepository interface {
	Get(ctx context.Context, userID int, videoID string) (*models.VideoProgress, error)
	Upsert(ctx context.Context, p *models.VideoProgress) error
}

// VideoBookmarkRepository is the interface for bookmark data access
type VideoBookmarkRepository interface {
	Toggle(ctx context.Context, b *models.Bookmark) (bool, error)
	Upsert(ctx context.Context, b *models.Bookmark) error
	Delete(ctx context.Context, userID int, videoID string, timestampSeconds int) (bool, error)
	ListByVideo(ctx context.Context, userID int, videoID string) ([]models.Bookmark, error)
}

// VideoContentRepository is the interface for the video catalogue
type VideoContentRepository interface {
	List(ctx context.Context, day *int) ([]models.VideoContent, error)
	GetByID(ctx context.Context, id string) (*models.VideoContent, error)
	Create(ctx context.Context, v *models.VideoContent) error
	Delete(ctx context.Context, id string) error
}

type videoService struct {
	progressRepo VideoProgressRepository
	bookmarkRepo VideoBookmarkRepository
	videoRepo    VideoContentRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewVideoService creates a new video service
func NewVideoService(
	progressRepo VideoProgressRepository,
	bookmarkRepo VideoBookmarkRepository,
	videoRepo VideoContentRepository,
	logger *zap.Logger,
) *videoService {
	return &videoService{
		progressRepo: progressRepo,
		bookmarkRepo: bookmarkRepo,
		videoRepo:    videoRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// SaveProgress upserts the resume position of a user in a video.
// The percentage is clamped to 0..100, reaching the completion threshold
// marks the video completed, and a completed video stays completed.
func (s *videoService) SaveProgress(ctx context.Context, userID int, videoID string, req *models.SaveProgressRequest) (*models.VideoProgress, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, fmt.Errorf("%w: video id is required", models.ErrValidation)
	}

	p := &models.VideoProgress{
		UserID:               userID,
		VideoID:              videoID,
		LastPosition:         math.Max(req.Position, 0),
		CompletionPercentage: clamp(req.Percentage, 0, 100),
		UpdatedAt:            s.now().UTC(),
	}
	p.Completed = req.Completed || p.CompletionPercentage >= models.CompletionThreshold

	if !p.Completed {
		prev, err := s.progressRepo.Get(ctx, userID, videoID)
		switch {
		case err == nil:
			p.Completed = prev.Completed
		case !errors.Is(err, models.ErrNotFound):
			s.logger.Warn("failed to read previous progress", zap.String("videoID", videoID), zap.Error(err))
		}
	}

	if err := s.progressRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProgress returns the stored progress, or a zero position when none exists
func (s *videoService) GetProgress(ctx context.Context, userID int, videoID string) (*models.VideoProgress, error) {
	p, err := s.progressRepo.Get(ctx, userID, videoID)
	if errors.Is(err, models.ErrNotFound) {
		return &models.VideoProgress{UserID: userID, VideoID: videoID}, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ToggleBookmark adds a bookmark at the whole second nearest to the timestamp, or removes the existing one
func (s *videoService) ToggleBookmark(ctx context.Context, userID int, videoID string, req *models.ToggleBookmarkRequest) (*models.ToggleBookmarkResponse, error) {
	videoID, err := bookmarkVideoID(videoID)
	if err != nil {
		return nil, err
	}

	b := &models.Bookmark{
		UserID:           userID,
		VideoID:          videoID,
		TimestampSeconds: bookmarkSecond(req.Timestamp),
		Note:             strings.TrimSpace(req.Note),
		CreatedAt:        s.now().UTC(),
	}
	created, err := s.bookmarkRepo.Toggle(ctx, b)
	if err != nil {
		return nil, err
	}
	if !created {
		return &models.ToggleBookmarkResponse{Bookmarked: false}, nil
	}
	return &models.ToggleBookmarkResponse{Bookmarked: true, Bookmark: b}, nil
}

// PutBookmark makes the bookmark at the whole second nearest to the timestamp exist with the given note
func (s *videoService) PutBookmark(ctx context.Context, userID int, videoID string, timestamp float64, req *models.PutBookmarkRequest) (*models.Bookmark, error) {
	videoID, err := bookmarkVideoID(videoID)
	if err != nil {
		return nil, err
	}
	b := &models.Bookmark{
		UserID:           userID,
		VideoID:          videoID,
		TimestampSeconds: bookmarkSecond(timestamp),
		Note:             strings.TrimSpace(req.Note),
		CreatedAt:        s.now().UTC(),
	}
	if err := s.bookmarkRepo.Upsert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RemoveBookmark makes sure no bookmark exists at the whole second nearest to the timestamp
func (s *videoService) RemoveBookmark(ctx context.Context, userID int, videoID string, timestamp float64) error {
	videoID, err := bookmarkVideoID(videoID)
	if err != nil {
		return err
	}
	_, err = s.bookmarkRepo.Delete(ctx, userID, videoID, bookmarkSecond(timestamp))
	return err
}

func bookmarkVideoID(videoID string) (string, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return "", fmt.Errorf("%w: video id is required", models.ErrValidation)
	}
	return videoID, nil
}

func bookmarkSecond(timestamp float64) int {
	return int(math.Round(math.Max(timestamp, 0)))
}

// ListBookmarks returns a user's bookmarks in a video ordered by timestamp
func (s *videoService) ListBookmarks(ctx context.Context, userID int, videoID string) ([]models.Bookmark, error) {
	return s.bookmarkRepo.ListByVideo(ctx, userID, videoID)
}

// ListVideos returns the video catalogue, optionally for one day
func (s *videoService) ListVideos(ctx context.Context, day *int) ([]models.VideoContent, error) {
	return s.videoRepo.List(ctx, day)
}

// GetVideo returns one catalogued video
func (s *videoService) GetVideo(ctx context.Context, id string) (*models.VideoContent, error) {
	return s.videoRepo.GetByID(ctx, id)
}

// CreateVideo catalogues a video under a new id
func (s *videoService) CreateVideo(ctx context.Context, req *models.CreateVideoRequest) (*models.VideoContent, error) {
	v := &models.VideoContent{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(req.Title),
		URL:             strings.TrimSpace(req.URL),
		DurationSeconds: req.DurationSeconds,
		DayNumber:       req.DayNumber,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.videoRepo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// DeleteVideo removes a catalogued video
func (s *videoService) DeleteVideo(ctx context.Context, id string) error {
	return s.videoRepo.Delete(ctx, id)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
