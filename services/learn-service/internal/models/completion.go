package models

import "time"

// DaySummary is one entry of the student day list
type DaySummary struct {
	DayNumber int       `json:"dayNumber"`
	Title     string    `json:"title"`
	Unlocked  bool      `json:"unlocked"`
	Completed bool      `json:"completed"`
	UnlocksAt time.Time `json:"unlocksAt"`
}

// ToggleCompletionResponse reports the completion state of a day after a toggle
type ToggleCompletionResponse struct {
	DayNumber int  `json:"dayNumber"`
	Completed bool `json:"completed"`
}

// SetCompletionRequest sets the completion mark of a day to a given state
type SetCompletionRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// Enrollment records when a student started the course
type Enrollment struct {
	UserID     int       `json:"userId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// EnrollRequest is sent by the auth service when an account is created
type EnrollRequest struct {
	UserID int    `json:"userId" validate:"required,gt=0"`
	Email  string `json:"email" validate:"required,email,max=255"`
	Name   string `json:"name" validate:"max=100"`
}

// DripUnlock names a student whose next day unlocks on a given date
type DripUnlock struct {
	UserID    int    `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	DayNumber int    `json:"dayNumber"`
}
