package models

import "time"

// EmailTemplate is a named e-mail whose subject and body carry {{1}}, {{2}}, ... placeholders
type EmailTemplate struct {
	ID              int       `json:"id"`
	Slug            string    `json:"slug"`
	SubjectTemplate string    `json:"subjectTemplate"`
	BodyTemplate    string    `json:"bodyTemplate"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

// CreateEmailTemplateRequest represents a request to create an email template
type CreateEmailTemplateRequest struct {
	Slug            string `json:"slug" validate:"required,max=100"`
	SubjectTemplate string `json:"subjectTemplate" validate:"required,max=255"`
	BodyTemplate    string `json:"bodyTemplate" validate:"required"`
}

// UpdateEmailTemplateRequest represents a partial update; empty fields are kept
type UpdateEmailTemplateRequest struct {
	Slug            string `json:"slug,omitempty" validate:"max=100"`
	SubjectTemplate string `json:"subjectTemplate,omitempty" validate:"max=255"`
	BodyTemplate    string `json:"bodyTemplate,omitempty"`
}

// EmailTemplateListItem represents an email template in a list response
type EmailTemplateListItem struct {
	ID   int    `json:"id"`
	Slug string `json:"slug"`
}

// EmailTemplateParts holds what the worker needs to render a message
type EmailTemplateParts struct {
	SubjectTemplate string
	BodyTemplate    string
}

// PreviewEmailTemplateRequest carries sample params for rendering a template
type PreviewEmailTemplateRequest struct {
	Params []string `json:"params" validate:"max=10"`
}
