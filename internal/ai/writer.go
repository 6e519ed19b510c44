package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go-openclaw-mailer/internal/filter"
	"go-openclaw-mailer/internal/models"
)

// Writer drafts application emails. Body and subject come from two
// separate prompts; each stream is concatenated verbatim.
type Writer struct {
	gen       TextGenerator
	applicant models.Applicant
	body      Request
	subject   Request
}

// NewWriter takes the sampling settings for both prompts; their Prompt
// fields are ignored.
func NewWriter(gen TextGenerator, applicant models.Applicant, body, subject Request) *Writer {
	return &Writer{
		gen:       gen,
		applicant: applicant,
		body:      body,
		subject:   subject,
	}
}

// Write generates the subject and body for a job description.
func (w *Writer) Write(ctx context.Context, jobDescription string) (models.GeneratedEmail, error) {
	kind := filter.ClassifyInternship(jobDescription)
	log.Printf("✍️ Drafting email (internship type: %s)", kind)

	bodyReq := w.body
	bodyReq.Prompt = buildBodyPrompt(w.applicant, jobDescription, kind)
	body, err := Collect(w.gen.Stream(ctx, bodyReq))
	if err != nil {
		return models.GeneratedEmail{}, fmt.Errorf("failed to generate email body: %w", err)
	}

	subjectReq := w.subject
	subjectReq.Prompt = buildSubjectPrompt(w.applicant, jobDescription)
	subject, err := Collect(w.gen.Stream(ctx, subjectReq))
	if err != nil {
		return models.GeneratedEmail{}, fmt.Errorf("failed to generate email subject: %w", err)
	}

	if strings.TrimSpace(body) == "" {
		return models.GeneratedEmail{}, fmt.Errorf("email body: %w", ErrEmptyGeneration)
	}
	if strings.TrimSpace(subject) == "" {
		return models.GeneratedEmail{}, fmt.Errorf("email subject: %w", ErrEmptyGeneration)
	}

	return models.GeneratedEmail{Subject: subject, Body: body}, nil
}
