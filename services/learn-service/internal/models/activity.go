package models

import (
	"encoding/json"
	"time"
)

// ActivityLog is a recorded user action
type ActivityLog struct {
	ID        int             `json:"id"`
	UserID    int             `json:"userId"`
	Action    string          `json:"action"`
	Metadata  json.RawMessage `json:"metadata"`
	IPAddress string          `json:"ipAddress,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// LogActivityRequest represents the log-activity payload
type LogActivityRequest struct {
	Action   string          `json:"action" validate:"required,max=64"`
	Metadata json.RawMessage `json:"metadata"`
}
