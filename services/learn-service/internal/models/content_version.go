package models

import (
	"encoding/json"
	"time"

	"github.com/aura-academy/portal/services/learn-service/internal/content"
)

// ContentVersion is an immutable snapshot of a content row taken on save
type ContentVersion struct {
	ID            int             `json:"id"`
	ContentID     int             `json:"contentId"`
	VersionNumber int             `json:"versionNumber"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	ChangeNote    string          `json:"changeNote"`
	ChangedBy     *int            `json:"changedBy"`
	Content       json.RawMessage `json:"content"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ContentVersionListItem represents a version in list responses
type ContentVersionListItem struct {
	ID            int       `json:"id"`
	VersionNumber int       `json:"versionNumber"`
	Title         string    `json:"title"`
	ChangeNote    string    `json:"changeNote"`
	ChangedBy     *int      `json:"changedBy"`
	CreatedAt     time.Time `json:"createdAt"`
	Preview       string    `json:"preview"`
}

// RestoredVersion carries a version's content back to the editor without saving it
type RestoredVersion struct {
	ContentID           int             `json:"contentId"`
	VersionNumber       int             `json:"versionNumber"`
	LatestVersionNumber int             `json:"latestVersionNumber"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Content             content.Content `json:"content"`
}
