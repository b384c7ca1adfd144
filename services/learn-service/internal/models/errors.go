package models

import "errors"

var (
	// ErrValidation is returned when input fails a business rule checked by a service
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidDay is returned for day numbers outside the course range
	ErrInvalidDay = errors.New("invalid day number")
	// ErrDayLocked is returned when a student opens a day that has not unlocked yet
	ErrDayLocked = errors.New("day is not unlocked yet")
	// ErrCourseIncomplete is returned when a certificate is requested before every day is complete
	ErrCourseIncomplete = errors.New("course is not complete")
	// ErrNotPublishable is returned when content cannot be published as is
	ErrNotPublishable = errors.New("content cannot be published")
	// ErrAlreadyResponded is returned when a review already has an instructor response
	ErrAlreadyResponded = errors.New("review already has a response")
)
