package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestVideoService(progressRepo *mockVideoProgressRepository, bookmarkRepo *mockVideoBookmarkRepository, videoRepo *mockVideoContentRepository) *videoService {
	svc := NewVideoService(progressRepo, bookmarkRepo, videoRepo, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestVideoService_SaveProgress(t *testing.T) {
	tests := []struct {
		name               string
		videoID            string
		request            models.SaveProgressRequest
		progressRepo       *mockVideoProgressRepository
		expectedErr        error
		expectedError      bool
		expectedPercentage float64
		expectedCompleted  bool
	}{
		{
			name:               "partial progress",
			videoID:            "day-1",
			request:            models.SaveProgressRequest{Position: 42.5, Percentage: 35},
			progressRepo:       &mockVideoProgressRepository{},
			expectedPercentage: 35,
		},
		{
			name:               "threshold completes",
			videoID:            "day-1",
			request:            models.SaveProgressRequest{Position: 540, Percentage: 90},
			progressRepo:       &mockVideoProgressRepository{},
			expectedPercentage: 90,
			expectedCompleted:  true,
		},
		{
			name:               "percentage clamped",
			videoID:            "day-1",
			request:            models.SaveProgressRequest{Position: 600, Percentage: 140},
			progressRepo:       &mockVideoProgressRepository{},
			expectedPercentage: 100,
			expectedCompleted:  true,
		},
		{
			name:               "explicit completion",
			videoID:            "day-1",
			request:            models.SaveProgressRequest{Position: 10, Percentage: 5, Completed: true},
			progressRepo:       &mockVideoProgressRepository{},
			expectedPercentage: 5,
			expectedCompleted:  true,
		},
		{
			name:    "completion is sticky after rewatch",
			videoID: "day-1",
			request: models.SaveProgressRequest{Position: 12, Percentage: 2},
			progressRepo: &mockVideoProgressRepository{
				progress: &models.VideoProgress{UserID: 3, VideoID: "day-1", CompletionPercentage: 96, Completed: true},
			},
			expectedPercentage: 2,
			expectedCompleted:  true,
		},
		{
			name:               "previous read failure still saves",
			videoID:            "day-1",
			request:            models.SaveProgressRequest{Position: 12, Percentage: 20},
			progressRepo:       &mockVideoProgressRepository{getErr: errors.New("timeout")},
			expectedPercentage: 20,
		},
		{
			name:         "blank video id",
			videoID:      "  ",
			request:      models.SaveProgressRequest{Position: 1, Percentage: 1},
			progressRepo: &mockVideoProgressRepository{},
			expectedErr:  models.ErrValidation,
		},
		{
			name:          "upsert error",
			videoID:       "day-1",
			request:       models.SaveProgressRequest{Position: 1, Percentage: 1},
			progressRepo:  &mockVideoProgressRepository{upsertErr: errors.New("database error")},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestVideoService(tt.progressRepo, &mockVideoBookmarkRepository{}, &mockVideoContentRepository{})

			result, err := svc.SaveProgress(context.Background(), 3, tt.videoID, &tt.request)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedPercentage, result.CompletionPercentage)
			assert.Equal(t, tt.expectedCompleted, result.Completed)
			assert.Equal(t, tt.request.Position, result.LastPosition)
			assert.Equal(t, result, tt.progressRepo.upserted)
		})
	}
}

func TestVideoService_GetProgress(t *testing.T) {
	svc := newTestVideoService(&mockVideoProgressRepository{}, &mockVideoBookmarkRepository{}, &mockVideoContentRepository{})

	result, err := svc.GetProgress(context.Background(), 3, "day-2")
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.LastPosition)
	assert.False(t, result.Completed)
	assert.Equal(t, "day-2", result.VideoID)

	_, err = svc.SaveProgress(context.Background(), 3, "day-2", &models.SaveProgressRequest{Position: 75, Percentage: 20})
	require.NoError(t, err)

	result, err = svc.GetProgress(context.Background(), 3, "day-2")
	require.NoError(t, err)
	assert.Equal(t, 75.0, result.LastPosition)

	svc = newTestVideoService(&mockVideoProgressRepository{getErr: errors.New("database error")}, &mockVideoBookmarkRepository{}, &mockVideoContentRepository{})
	_, err = svc.GetProgress(context.Background(), 3, "day-2")
	assert.Error(t, err)
}

func TestVideoService_ToggleBookmark(t *testing.T) {
	bookmarkRepo := &mockVideoBookmarkRepository{}
	svc := newTestVideoService(&mockVideoProgressRepository{}, bookmarkRepo, &mockVideoContentRepository{})

	first, err := svc.ToggleBookmark(context.Background(), 3, "day-1", &models.ToggleBookmarkRequest{Timestamp: 61.6, Note: " breath "})
	require.NoError(t, err)
	assert.True(t, first.Bookmarked)
	require.NotNil(t, first.Bookmark)
	assert.Equal(t, 62, first.Bookmark.TimestampSeconds)
	assert.Equal(t, "breath", first.Bookmark.Note)

	second, err := svc.ToggleBookmark(context.Background(), 3, "day-1", &models.ToggleBookmarkRequest{Timestamp: 62.2})
	require.NoError(t, err)
	assert.False(t, second.Bookmarked)
	assert.Nil(t, second.Bookmark)

	list, err := svc.ListBookmarks(context.Background(), 3, "day-1")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.ToggleBookmark(context.Background(), 3, "", &models.ToggleBookmarkRequest{Timestamp: 1})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestVideoService_PutAndRemoveBookmarkConverge(t *testing.T) {
	bookmarkRepo := &mockVideoBookmarkRepository{}
	svc := newTestVideoService(&mockVideoProgressRepository{}, bookmarkRepo, &mockVideoContentRepository{})
	ctx := context.Background()

	first, err := svc.PutBookmark(ctx, 3, "day-1", 41.7, &models.PutBookmarkRequest{Note: " breath "})
	require.NoError(t, err)
	assert.Equal(t, 42, first.TimestampSeconds)
	assert.Equal(t, "breath", first.Note)

	// Sending the same write again leaves one bookmark with the latest note
	again, err := svc.PutBookmark(ctx, 3, "day-1", 42, &models.PutBookmarkRequest{Note: "exhale"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	require.Len(t, bookmarkRepo.marks, 1)
	assert.Equal(t, "exhale", bookmarkRepo.marks[42].Note)

	require.NoError(t, svc.RemoveBookmark(ctx, 3, "day-1", 42))
	require.NoError(t, svc.RemoveBookmark(ctx, 3, "day-1", 42))
	assert.Empty(t, bookmarkRepo.marks)

	_, err = svc.PutBookmark(ctx, 3, " ", 1, &models.PutBookmarkRequest{})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.ErrorIs(t, svc.RemoveBookmark(ctx, 3, "", 1), models.ErrValidation)
}

func TestVideoService_CreateVideo(t *testing.T) {
	videoRepo := &mockVideoContentRepository{}
	svc := newTestVideoService(&mockVideoProgressRepository{}, &mockVideoBookmarkRepository{}, videoRepo)
	day := 2

	result, err := svc.CreateVideo(context.Background(), &models.CreateVideoRequest{
		Title:           " Morning flow ",
		URL:             "https://vimeo.com/42",
		DurationSeconds: 600,
		DayNumber:       &day,
	})

	require.NoError(t, err)
	assert.Len(t, result.ID, 36)
	assert.Equal(t, "Morning flow", result.Title)
	assert.Equal(t, result, videoRepo.created)

	videoRepo.videos = []models.VideoContent{*result}
	videos, err := svc.ListVideos(context.Background(), &day)
	require.NoError(t, err)
	assert.Len(t, videos, 1)

	got, err := svc.GetVideo(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning flow", got.Title)

	assert.NoError(t, svc.DeleteVideo(context.Background(), result.ID))
}
