package models

import "errors"

var (
	// ErrNotFound is returned when a row does not exist
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for bad input; wrapped with details
	ErrValidation = errors.New("validation failed")
	// ErrSlugTaken is returned when another template already uses the slug
	ErrSlugTaken = errors.New("email template slug already exists")
)
