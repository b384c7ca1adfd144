package models

import "time"

// NotificationStatus represents the delivery state of a notification
type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "pending"
	NotificationStatusCompleted NotificationStatus = "completed"
	NotificationStatusFailed    NotificationStatus = "failed"
)

// Valid reports whether s is a known status
func (s NotificationStatus) Valid() bool {
	switch s {
	case NotificationStatusPending, NotificationStatusCompleted, NotificationStatusFailed:
		return true
	}
	return false
}

// Notification is one templated e-mail queued for delivery
type Notification struct {
	ID         int                `json:"id"`
	UserID     *int               `json:"userId,omitempty"`
	TemplateID int                `json:"templateId"`
	Recipient  string             `json:"recipient"`
	Params     []string           `json:"params"`
	Status     NotificationStatus `json:"status"`
	Error      string             `json:"error,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	SentAt     *time.Time         `json:"sentAt,omitempty"`
}

// NotificationListItem represents a notification in a list response
type NotificationListItem struct {
	ID         int                `json:"id"`
	UserID     *int               `json:"userId,omitempty"`
	TemplateID int                `json:"templateId"`
	Recipient  string             `json:"recipient"`
	Status     NotificationStatus `json:"status"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// NotificationFilter narrows a notification listing; zero values match everything
type NotificationFilter struct {
	UserID     int
	TemplateID int
	Status     NotificationStatus
}

// SendEmailRequest asks for a templated e-mail; params fill {{1}}, {{2}}, ... in order
type SendEmailRequest struct {
	TemplateSlug string   `json:"templateSlug" validate:"required,max=100"`
	Recipient    string   `json:"recipient" validate:"required,email,max=255"`
	Params       []string `json:"params" validate:"max=10"`
	UserID       *int     `json:"userId,omitempty" validate:"omitempty,gt=0"`
}

// SendEmailResponse is returned once the e-mail is queued
type SendEmailResponse struct {
	ID     int                `json:"id"`
	Status NotificationStatus `json:"status"`
}
