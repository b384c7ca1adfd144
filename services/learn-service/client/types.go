package client

import "time"

// Block is one lesson item: text, or a video with an optional caption
type Block struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Content string  `json:"content"`
	URL     *string `json:"url"`
}

// Section is a titled, numbered group of blocks
type Section struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Number int     `json:"number"`
	Blocks []Block `json:"blocks"`
}

// Content is the canonical lesson structure of a day
type Content struct {
	Sections []Section `json:"sections"`
}

// DayContent is the student view of a course day
type DayContent struct {
	ContentID   int        `json:"contentId,omitempty"`
	DayNumber   int        `json:"dayNumber"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     Content    `json:"content"`
	VideoURL    *string    `json:"videoUrl"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	Source      string     `json:"source"`
	Status      string     `json:"status"`
	Completed   bool       `json:"completed"`
}

// DaySummary is one entry of the day list
type DaySummary struct {
	DayNumber int       `json:"dayNumber"`
	Title     string    `json:"title"`
	Unlocked  bool      `json:"unlocked"`
	Completed bool      `json:"completed"`
	UnlocksAt time.Time `json:"unlocksAt"`
}

// ProgressUpdate is a playback report sent by the player
type ProgressUpdate struct {
	Position   float64 `json:"position"`
	Percentage float64 `json:"percentage"`
	Completed  bool    `json:"completed"`
}

// VideoProgress is the stored resume position of a video
type VideoProgress struct {
	VideoID              string    `json:"videoId"`
	LastPosition         float64   `json:"lastPosition"`
	CompletionPercentage float64   `json:"completionPercentage"`
	Completed            bool      `json:"completed"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Bookmark marks a whole-second timestamp in a video
type Bookmark struct {
	ID               int       `json:"id"`
	VideoID          string    `json:"videoId"`
	TimestampSeconds int       `json:"timestampSeconds"`
	Note             string    `json:"note"`
	CreatedAt        time.Time `json:"createdAt"`
}

// BookmarkToggle is the bookmark state after a toggle
type BookmarkToggle struct {
	Bookmarked bool      `json:"bookmarked"`
	Bookmark   *Bookmark `json:"bookmark,omitempty"`
}

// CompletionState is the completion mark of a day after a toggle
type CompletionState struct {
	DayNumber int  `json:"dayNumber"`
	Completed bool `json:"completed"`
}
