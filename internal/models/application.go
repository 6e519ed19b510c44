package models

import (
	"time"
)

type ApplicationStatus string

const (
	StatusSent             ApplicationStatus = "SENT"
	StatusNotSent          ApplicationStatus = "NOT_SENT"
	StatusCancelled        ApplicationStatus = "CANCELLED"
	StatusFailed           ApplicationStatus = "FAILED"
	StatusGenerationFailed ApplicationStatus = "GENERATION_FAILED"
)

// GeneratedEmail is the subject and body drafted for one session.
// It is never modified after the Content Generator returns it.
type GeneratedEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Empty reports whether either part of the draft is missing.
func (g GeneratedEmail) Empty() bool {
	return g.Subject == "" || g.Body == ""
}

// Applicant holds the fixed facts embedded in every generated email.
type Applicant struct {
	FullName       string `yaml:"full_name" json:"full_name"`
	Institution    string `yaml:"institution" json:"institution"`
	FieldOfStudy   string `yaml:"field_of_study" json:"field_of_study"`
	InternshipType string `yaml:"internship_type" json:"internship_type"`
	PortfolioURL   string `yaml:"portfolio_url" json:"portfolio_url"`
	GitHubURL      string `yaml:"github_url" json:"github_url"`
}

// Fill returns a copy of a whose empty fields are taken from other.
func (a Applicant) Fill(other Applicant) Applicant {
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&a.FullName, other.FullName},
		{&a.Institution, other.Institution},
		{&a.FieldOfStudy, other.FieldOfStudy},
		{&a.InternshipType, other.InternshipType},
		{&a.PortfolioURL, other.PortfolioURL},
		{&a.GitHubURL, other.GitHubURL},
	} {
		if *f.dst == "" {
			*f.dst = f.src
		}
	}
	return a
}

// Application is the journal record written when a session ends.
type Application struct {
	ID             string            `json:"id"`
	SessionID      string            `json:"session_id"`
	TelegramID     int64             `json:"telegram_id"`
	Recipient      string            `json:"recipient"`
	JobDescription string            `json:"job_description"`
	Subject        string            `json:"subject,omitempty"`
	CVPath         string            `json:"cv_path,omitempty"`
	MessageID      string            `json:"message_id,omitempty"`
	Status         ApplicationStatus `json:"status"`
	Error          string            `json:"error,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}
