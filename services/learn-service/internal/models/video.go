package models

import "time"

// CompletionThreshold is the watched percentage at which a video counts as completed
const CompletionThreshold = 90.0

// VideoProgress is the resume position of a user in a video
type VideoProgress struct {
	UserID               int       `json:"userId"`
	VideoID              string    `json:"videoId"`
	LastPosition         float64   `json:"lastPosition"`
	CompletionPercentage float64   `json:"completionPercentage"`
	Completed            bool      `json:"completed"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// SaveProgressRequest represents a progress autosave from the player
type SaveProgressRequest struct {
	Position   float64 `json:"position" validate:"gte=0"`
	Percentage float64 `json:"percentage" validate:"gte=0"`
	Completed  bool    `json:"completed"`
}

// SaveVideoProgressRequest is the body of the save-video-progress route, which names the video in the body
type SaveVideoProgressRequest struct {
	VideoID string `json:"videoId" validate:"required,max=64"`
	SaveProgressRequest
}

// Bookmark marks a whole-second timestamp in a video
type Bookmark struct {
	ID               int       `json:"id"`
	UserID           int       `json:"userId"`
	VideoID          string    `json:"videoId"`
	TimestampSeconds int       `json:"timestampSeconds"`
	Note             string    `json:"note"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ToggleBookmarkRequest represents a bookmark toggle at a playback position
type ToggleBookmarkRequest struct {
	Timestamp float64 `json:"timestamp" validate:"gte=0"`
	Note      string  `json:"note" validate:"max=500"`
}

// ToggleBookmarkResponse reports the bookmark state after a toggle
type ToggleBookmarkResponse struct {
	Bookmarked bool      `json:"bookmarked"`
	Bookmark   *Bookmark `json:"bookmark,omitempty"`
}

// PutBookmarkRequest carries the note of a bookmark addressed by its timestamp
type PutBookmarkRequest struct {
	Note string `json:"note" validate:"max=500"`
}

// VideoContent is a catalogued lesson video
type VideoContent struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	DurationSeconds int       `json:"durationSeconds"`
	DayNumber       *int      `json:"dayNumber"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CreateVideoRequest represents an admin request to catalogue a video
type CreateVideoRequest struct {
	Title           string `json:"title" validate:"required,max=255"`
	URL             string `json:"url" validate:"required,url,max=1024"`
	DurationSeconds int    `json:"durationSeconds" validate:"gte=0"`
	DayNumber       *int   `json:"dayNumber" validate:"omitempty,gte=1"`
}
