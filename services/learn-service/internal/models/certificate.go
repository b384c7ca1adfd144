package models

import "time"

// Certificate is issued once a student completes every day of the course
type Certificate struct {
	ID            int       `json:"id"`
	UserID        int       `json:"userId"`
	Code          string    `json:"code"`
	RecipientName string    `json:"recipientName"`
	CourseTitle   string    `json:"courseTitle"`
	IssuedAt      time.Time `json:"issuedAt"`
}

// IssueCertificateRequest represents a certificate claim
type IssueCertificateRequest struct {
	RecipientName string `json:"recipientName" validate:"required,max=100"`
}

// CertificateVerification is the public answer to a verification lookup
type CertificateVerification struct {
	Valid         bool       `json:"valid"`
	Code          string     `json:"code"`
	RecipientName string     `json:"recipientName,omitempty"`
	CourseTitle   string     `json:"courseTitle,omitempty"`
	IssuedAt      *time.Time `json:"issuedAt,omitempty"`
}

// DefaultCourseTitle is printed on certificates
const DefaultCourseTitle = "Aura Empowerment Academy"
