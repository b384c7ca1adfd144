package models

import "time"

// Review is a student's course review
type Review struct {
	ID          int                 `json:"id"`
	UserID      int                 `json:"userId"`
	DisplayName string              `json:"displayName"`
	Rating      int                 `json:"rating"`
	Body        string              `json:"body"`
	IsPublished bool                `json:"isPublished"`
	CreatedAt   time.Time           `json:"createdAt"`
	Response    *InstructorResponse `json:"response,omitempty"`
}

// InstructorResponse is an admin reply to a review
type InstructorResponse struct {
	ID          int       `json:"id"`
	ReviewID    int       `json:"reviewId"`
	ResponderID int       `json:"responderId"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SubmitReviewRequest represents a review submission
type SubmitReviewRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=100"`
	Rating      int    `json:"rating" validate:"required,gte=1,lte=5"`
	Body        string `json:"body" validate:"required,max=2000"`
}

// RespondReviewRequest represents an instructor response
type RespondReviewRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// PublishReviewRequest toggles review visibility
type PublishReviewRequest struct {
	IsPublished bool `json:"isPublished"`
}
