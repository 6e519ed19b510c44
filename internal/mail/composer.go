// Package mail builds application emails and hands them to a mail sender.
package mail

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"log"
	"os"
	"strings"

	"github.com/jhillyerd/enmime"
)

const attachmentContentType = "application/pdf"

var htmlBody = template.Must(template.New("body").Parse(`<html>
  <body>
    <p style="white-space: pre-line">{{.Body}}</p>
{{- if .PortfolioURL}}
    <p>Check out my <a href="{{.PortfolioURL}}" target="_blank">portfolio</a>.</p>
{{- end}}
{{- if .GitHubURL}}
    <p>Check out my <a href="{{.GitHubURL}}" target="_blank">GitHub Profile</a>.</p>
{{- end}}
  </body>
</html>
`))

// Draft is everything needed to build one application email.
type Draft struct {
	From    string
	To      string
	Subject string
	Body    string
	// AttachmentPath is optional. A path that does not exist is skipped.
	AttachmentPath string
}

// Composer turns drafts into RFC 5322 messages with an HTML body carrying
// the fixed portfolio and GitHub links.
type Composer struct {
	PortfolioURL   string
	GitHubURL      string
	AttachmentName string
}

// Compose builds the message bytes for d.
func (c *Composer) Compose(d Draft) ([]byte, error) {
	var html bytes.Buffer
	if err := htmlBody.Execute(&html, struct {
		Body         string
		PortfolioURL string
		GitHubURL    string
	}{d.Body, c.PortfolioURL, c.GitHubURL}); err != nil {
		return nil, fmt.Errorf("failed to render html body: %w", err)
	}

	builder := enmime.Builder().
		From("", d.From).
		To("", d.To).
		Subject(d.Subject).
		Text([]byte(d.Body)).
		HTML(html.Bytes())

	if d.AttachmentPath != "" {
		data, err := os.ReadFile(d.AttachmentPath)
		switch {
		case err == nil:
			builder = builder.AddAttachment(data, attachmentContentType, c.AttachmentName)
		case errors.Is(err, os.ErrNotExist):
			log.Printf("⚠️ Attachment %s not found, sending without CV", d.AttachmentPath)
		default:
			return nil, fmt.Errorf("failed to read attachment: %w", err)
		}
	}

	part, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeRaw produces the base64url form the Gmail API expects in "raw".
func EncodeRaw(msg []byte) string {
	return base64.URLEncoding.EncodeToString(msg)
}

// Attachment is a decoded binary part.
type Attachment struct {
	FileName string
	Content  []byte
}

// Decoded is a parsed message, used by the log sender and in tests.
type Decoded struct {
	From        string
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Decode parses message bytes produced by Compose.
func Decode(msg []byte) (*Decoded, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(msg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	d := &Decoded{
		From:    env.GetHeader("From"),
		To:      env.GetHeader("To"),
		Subject: env.GetHeader("Subject"),
		Text:    strings.ReplaceAll(env.Text, "\r\n", "\n"),
		HTML:    env.HTML,
	}
	for _, a := range env.Attachments {
		d.Attachments = append(d.Attachments, Attachment{FileName: a.FileName, Content: a.Content})
	}
	return d, nil
}
