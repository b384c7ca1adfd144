package models

import "time"

// SetupToken is a single-use code that promotes the account redeeming it to admin
type SetupToken struct {
	ID        int        `json:"id"`
	Token     string     `json:"token"`
	CreatedBy *int       `json:"createdBy"`
	UsedBy    *int       `json:"usedBy,omitempty"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	ExpiresAt time.Time  `json:"expiresAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PasswordReset is a single-use password reset code sent by e-mail
type PasswordReset struct {
	ID        int        `json:"id"`
	UserID    int        `json:"userId"`
	Token     string     `json:"-"`
	ExpiresAt time.Time  `json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// NewsletterSubscriber is an address on the mailing list
type NewsletterSubscriber struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}
