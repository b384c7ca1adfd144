package models

import "encoding/json"

// LegacyDaySection is a row of the read-only day_sections table
type LegacyDaySection struct {
	ID            int
	DayNumber     int
	SectionNumber int
	Title         string
	Content       json.RawMessage
}

// LegacyLessonBlock is a block row joined with its lesson_sections parent
type LegacyLessonBlock struct {
	SectionID     int
	SectionNumber int
	SectionTitle  string
	BlockID       *int
	BlockType     *string
	BlockContent  *string
	BlockURL      *string
}
