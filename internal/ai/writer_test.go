package ai

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"testing"

	"go-openclaw-mailer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator answers like a model that follows the advertisement rule
// embedded in the body prompt.
type stubGenerator struct {
	mu       sync.Mutex
	requests []Request
	err      error
	empty    bool
}

func (s *stubGenerator) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	return func(yield func(string, error) bool) {
		if s.err != nil {
			yield("", s.err)
			return
		}
		if s.empty {
			return
		}

		var fragments []string
		switch {
		case strings.Contains(req.Prompt, "only the subject"):
			fragments = []string{"Application: ", "Data internship"}
		case strings.Contains(req.Prompt, "'"+AdvertisementPhrase+"'"):
			fragments = []string{"Dear recruiter, I am writing ", AdvertisementPhrase, "."}
		default:
			fragments = []string{"Dear recruiter, ", "I would like to apply."}
		}
		for _, f := range fragments {
			if !yield(f, nil) {
				return
			}
		}
	}
}

var testApplicant = models.Applicant{
	FullName:       "Hamza Kholti",
	Institution:    "ENSA Tetouan",
	FieldOfStudy:   "Data Science, Big Data, and AI",
	InternshipType: "PFA",
}

func newTestWriter(gen TextGenerator) *Writer {
	return NewWriter(gen, testApplicant,
		Request{Model: "body-model", Temperature: 0.6, TopP: 1, MaxTokens: 650},
		Request{Model: "subject-model", Temperature: 1, TopP: 1, MaxTokens: 650},
	)
}

func TestWriter_Write(t *testing.T) {
	gen := &stubGenerator{}
	email, err := newTestWriter(gen).Write(context.Background(), "Data internship, type: PFA")
	require.NoError(t, err)

	assert.Equal(t, "Application: Data internship", email.Subject)
	assert.Equal(t, "Dear recruiter, I am writing "+AdvertisementPhrase+".", email.Body)

	require.Len(t, gen.requests, 2)
	assert.Equal(t, "body-model", gen.requests[0].Model)
	assert.Equal(t, 0.6, gen.requests[0].Temperature)
	assert.Contains(t, gen.requests[0].Prompt, "Hamza Kholti")
	assert.Contains(t, gen.requests[0].Prompt, "ENSA Tetouan")
	assert.Contains(t, gen.requests[0].Prompt, closingSentence)
	assert.Contains(t, gen.requests[0].Prompt, "Data internship, type: PFA")
	assert.Equal(t, "subject-model", gen.requests[1].Model)
	assert.Contains(t, gen.requests[1].Prompt, FallbackSubject)
	assert.Contains(t, gen.requests[1].Prompt, "Data internship, type: PFA")
}

func TestWriter_AdvertisementPolicy(t *testing.T) {
	tests := []struct {
		name       string
		jd         string
		wantPhrase bool
	}{
		{"PFE", "Offre de stage PFE - Data Engineer", false},
		{"PFA", "Stage PFA en data science", true},
		{"summer", "Summer internship, machine learning team", true},
		{"unspecified", "Data analyst intern wanted", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := newTestWriter(&stubGenerator{}).Write(context.Background(), tt.jd)
			require.NoError(t, err)
			if tt.wantPhrase {
				assert.Contains(t, email.Body, AdvertisementPhrase)
			} else {
				assert.NotContains(t, email.Body, AdvertisementPhrase)
			}
		})
	}
}

func TestWriter_GeneratorErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := newTestWriter(&stubGenerator{err: boom}).Write(context.Background(), "jd")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestWriter_EmptyStream(t *testing.T) {
	_, err := newTestWriter(&stubGenerator{empty: true}).Write(context.Background(), "jd")
	assert.ErrorIs(t, err, ErrEmptyGeneration)
}

func TestCollect(t *testing.T) {
	seq := func(yield func(string, error) bool) {
		for _, s := range []string{"a", "b", "c"} {
			if !yield(s, nil) {
				return
			}
		}
	}
	out, err := Collect(seq)
	require.NoError(t, err)
	assert.Equal(t, "abc", out)
}
