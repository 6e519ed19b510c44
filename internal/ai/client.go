package ai

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"go-openclaw-mailer/internal/filter"
	"go-openclaw-mailer/internal/models"
)

const (
	// AdvertisementPhrase is required in bodies for advertised PFA, summer
	// and unspecified internships, and forbidden for PFE ones.
	AdvertisementPhrase = "regarding the internship advertisement you published"

	// FallbackSubject is used when no topic can be inferred.
	FallbackSubject = "Apply for internship"

	closingSentence = "Please find my GitHub, portfolio and resume in attachment."
)

// ErrEmptyGeneration is returned when a stream completes without any text.
var ErrEmptyGeneration = errors.New("text generator returned an empty response")

// Request is a single prompt plus its sampling parameters.
type Request struct {
	Model       string
	Prompt      string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// TextGenerator is the interface for AI providers. Stream yields text
// fragments in arrival order; a non-nil error ends the sequence.
type TextGenerator interface {
	Stream(ctx context.Context, req Request) iter.Seq2[string, error]
}

// Collect drains a fragment stream into one string.
func Collect(stream iter.Seq2[string, error]) (string, error) {
	var sb strings.Builder
	for fragment, err := range stream {
		if err != nil {
			return "", err
		}
		sb.WriteString(fragment)
	}
	return sb.String(), nil
}

// buildBodyPrompt creates the instruction for the email body
func buildBodyPrompt(applicant models.Applicant, jobDescription string, kind filter.InternshipType) string {
	var policy string
	if kind.ReferencesAdvertisement() {
		policy = fmt.Sprintf("This opportunity is advertised (type: %s). Say '%s'.", kind, AdvertisementPhrase)
	} else {
		policy = "This is a PFE opportunity. Write a direct application and do not say that the email answers a published offer, even though the opportunity does not exactly fit me."
	}

	return fmt.Sprintf(`Please, this is an automatic system to write emails and send them. I need you to write an email to apply for an internship. Here is the information to include in the email:

* I am %s, a student at %s in %s.

* I am looking for a %s internship.

* and say "%s"

Here is the job description: %s

I need you to show my interest in a %s internship.
%s
Please note that this is an automatic system. Provide only the email and nothing else, as everything you generate will be copied, pasted, and sent directly to the email.
Please keep the email short.
Please provide only the body without the subject.`,
		applicant.FullName, applicant.Institution, applicant.FieldOfStudy,
		applicant.InternshipType, closingSentence,
		jobDescription,
		applicant.InternshipType, policy)
}

// buildSubjectPrompt creates the instruction for the subject line
func buildSubjectPrompt(applicant models.Applicant, jobDescription string) string {
	return fmt.Sprintf(`Please, this is an automatic system to write emails and send them. I already wrote the body of the email. I need you to give me only the subject of the email.
Here is the job description: %s
Rules to follow:
- use the subject provided in the job description if it is related to %s and it is a %s internship (not a PFE internship)
- if none is provided, say '%s'.
Keep it short.
Please note that this is an automatic system. Provide only the subject of the email and nothing else, as everything you generate will be copied, pasted, and sent directly to the email.`,
		jobDescription, applicant.FieldOfStudy, applicant.InternshipType, FallbackSubject)
}
