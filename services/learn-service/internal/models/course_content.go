package models

import (
	"encoding/json"
	"time"

	"github.com/aura-academy/portal/services/learn-service/internal/content"
)

// ContentSource tells where day content was read from
type ContentSource string

const (
	ContentSourceCourseContent ContentSource = "course_content"
	ContentSourceLegacy        ContentSource = "legacy"
	ContentSourceNone          ContentSource = "none"
)

// ContentStatus is the display state of a day page
type ContentStatus string

const (
	ContentStatusOK    ContentStatus = "ok"
	ContentStatusEmpty ContentStatus = "empty"
	ContentStatusError ContentStatus = "error"
)

// CourseContent represents one stored lesson row for a day.
// Several rows may exist for a day, the most recently updated one is authoritative.
type CourseContent struct {
	ID          int             `json:"id"`
	DayNumber   int             `json:"dayNumber"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Content     json.RawMessage `json:"content"`
	VideoURL    *string         `json:"videoUrl"`
	IsPublished bool            `json:"isPublished"`
	UpdatedBy   *int            `json:"updatedBy,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CourseContentListItem represents a content row in admin list responses
type CourseContentListItem struct {
	ID            int       `json:"id"`
	DayNumber     int       `json:"dayNumber"`
	Title         string    `json:"title"`
	IsPublished   bool      `json:"isPublished"`
	VersionNumber int       `json:"versionNumber"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DayContentResponse is the canonical view of a day served to the student renderer and the editor
type DayContentResponse struct {
	ContentID   int                       `json:"contentId,omitempty"`
	DayNumber   int                       `json:"dayNumber"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Content     content.Content           `json:"content"`
	Rendered    []content.RenderedSection `json:"rendered,omitempty"`
	VideoURL    *string                   `json:"videoUrl"`
	IsPublished bool                      `json:"isPublished"`
	UpdatedAt   *time.Time                `json:"updatedAt,omitempty"`
	Source      ContentSource             `json:"source"`
	Status      ContentStatus             `json:"status"`
	Creatable   bool                      `json:"creatable"`
	Completed   bool                      `json:"completed"`
}

// SaveContentRequest represents a whole-structure save from the admin editor.
// Content accepts any stored shape and is normalized before it is written.
type SaveContentRequest struct {
	DayNumber   int             `json:"dayNumber" validate:"required,gte=1"`
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description" validate:"max=2000"`
	Content     json.RawMessage `json:"content"`
	IsPublished bool            `json:"isPublished"`
	ChangeNote  string          `json:"changeNote" validate:"max=500"`
}

// ApplyOperationsRequest carries a batch of editor operations followed by a save
type ApplyOperationsRequest struct {
	Operations []content.Operation `json:"operations" validate:"required,min=1,dive"`
	ChangeNote string              `json:"changeNote" validate:"max=500"`
}

// SaveContentResponse is returned after a save that created a version
type SaveContentResponse struct {
	VersionNumber int                `json:"versionNumber"`
	Content       DayContentResponse `json:"content"`
}
