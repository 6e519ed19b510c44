package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"path/filepath"
	"strings"
	"time"

	"go-openclaw-mailer/internal/cv"
	"go-openclaw-mailer/internal/models"

	"github.com/google/uuid"
)

// Button payloads.
const (
	CallbackPredefinedCV = "predefined_cv"
	CallbackUploadCV     = "upload_cv"
	CallbackSend         = "send_email"
	CallbackDontSend     = "dont_send"
)

const (
	msgAskEmail       = "Please provide your email address:"
	msgAskJob         = "Got it! Now, please provide the job description:"
	msgRepromptJob    = "Please provide the job description:"
	msgDrafting       = "✍️ Writing your email..."
	msgAskCV          = "Would you like to send a CV with this email?"
	msgPredefinedCV   = "Using the predefined CV."
	msgAskUpload      = "Please upload your CV as a PDF file."
	msgInvalidUpload  = "Please upload a valid PDF file."
	msgUploadFailed   = "⚠️ Could not save your CV, please upload it again."
	msgAskSend        = "Would you like to send this email?"
	msgChooseOption   = "Please choose one of the options above."
	msgSent           = "Email sent successfully!"
	msgNotSent        = "Email not sent."
	msgSendFailed     = "❌ Email not sent: an error occurred while sending it."
	msgCancelled      = "Operation cancelled."
	msgNoSession      = "Send /start to draft a new application email."
	msgGenerateFailed = "❌ Could not write the email. Send /start to try again."
)

// ErrGeneration wraps any Content Generator failure returned by Handle.
var ErrGeneration = errors.New("email generation failed")

var (
	cvButtons = []Button{
		{Label: "Send Predefined CV", Data: CallbackPredefinedCV},
		{Label: "Upload My CV", Data: CallbackUploadCV},
	}
	reviewButtons = []Button{
		{Label: "Send", Data: CallbackSend},
		{Label: "Don't Send", Data: CallbackDontSend},
	}
)

// Machine owns every session and moves each one through the flow. Handle
// must not be called concurrently for the same user; the dispatcher
// serializes events per user.
type Machine struct {
	channel  Channel
	writer   EmailWriter
	mailer   MailSender
	cvs      CVStore
	sessions *SessionStore

	history RecipientHistory
	journal Journal
}

type Option func(*Machine)

func WithHistory(h RecipientHistory) Option {
	return func(m *Machine) { m.history = h }
}

func WithJournal(j Journal) Option {
	return func(m *Machine) { m.journal = j }
}

func NewMachine(channel Channel, writer EmailWriter, mailer MailSender, cvs CVStore, opts ...Option) *Machine {
	m := &Machine{
		channel:  channel,
		writer:   writer,
		mailer:   mailer,
		cvs:      cvs,
		sessions: NewSessionStore(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Sessions exposes the store for inspection.
func (m *Machine) Sessions() *SessionStore {
	return m.sessions
}

// Handle processes one event. Only generation failures are returned as
// errors (wrapping ErrGeneration) or transport failures while replying;
// delivery failures are reported to the user and end the session normally.
func (m *Machine) Handle(ctx context.Context, ev Event) error {
	log.Printf("💬 Event %s from user %d", ev.Kind, ev.UserID)

	switch ev.Kind {
	case EventStart:
		return m.start(ctx, ev)
	case EventCancel:
		return m.cancel(ctx, ev)
	}

	s, ok := m.sessions.Get(ev.UserID)
	if !ok {
		if err := m.ack(ctx, ev); err != nil {
			return err
		}
		return m.channel.SendText(ctx, ev.ChatID, msgNoSession)
	}

	switch s.State {
	case CollectEmail:
		return m.collectEmail(ctx, s, ev)
	case CollectJobDescription:
		return m.collectJobDescription(ctx, s, ev)
	case ChooseCV:
		return m.chooseCV(ctx, s, ev)
	case HandleCVUpload:
		return m.handleCVUpload(ctx, s, ev)
	case Review:
		return m.review(ctx, s, ev)
	default:
		// terminal sessions are evicted; nothing routes here
		return nil
	}
}

func (m *Machine) start(ctx context.Context, ev Event) error {
	if old, ok := m.sessions.Get(ev.UserID); ok {
		log.Printf("🔁 User %d restarted, dropping session %s in %s", ev.UserID, old.ID, old.State)
		m.sessions.evict(old)
	}
	s := newSession(ev.UserID, ev.ChatID)
	m.sessions.put(s)
	log.Printf("🚀 Session %s started for user %d", s.ID, s.UserID)
	return m.channel.SendText(ctx, ev.ChatID, msgAskEmail)
}

func (m *Machine) cancel(ctx context.Context, ev Event) error {
	s, ok := m.sessions.Get(ev.UserID)
	if !ok {
		log.Printf("ℹ️ Cancel from user %d without a session, ignoring", ev.UserID)
		return nil
	}
	m.finish(ctx, s, models.StatusCancelled, "", nil)
	return m.channel.SendText(ctx, ev.ChatID, msgCancelled)
}

func (m *Machine) collectEmail(ctx context.Context, s *Session, ev Event) error {
	if ev.Kind != EventText {
		return m.reprompt(ctx, s, ev)
	}

	recipient := strings.TrimSpace(ev.Text)
	if recipient == "" {
		return m.reprompt(ctx, s, ev)
	}
	if _, err := mail.ParseAddress(recipient); err != nil {
		log.Printf("⚠️ Session %s: %q does not parse as an address, using it as is", s.ID, recipient)
	}
	s.setRecipient(recipient)
	s.State = CollectJobDescription

	if m.history != nil {
		if at, seen := m.history.LastSent(s.RecipientEmail); seen {
			notice := fmt.Sprintf("ℹ️ You already applied to %s on %s.", s.RecipientEmail, at.Format("2006-01-02"))
			if err := m.channel.SendText(ctx, s.ChatID, notice); err != nil {
				return err
			}
		}
	}
	return m.channel.SendText(ctx, s.ChatID, msgAskJob)
}

func (m *Machine) collectJobDescription(ctx context.Context, s *Session, ev Event) error {
	if ev.Kind != EventText {
		return m.reprompt(ctx, s, ev)
	}
	s.setJobDescription(ev.Text)

	if err := m.channel.SendText(ctx, s.ChatID, msgDrafting); err != nil {
		return err
	}

	started := time.Now()
	email, err := m.writer.Write(ctx, s.JobDescription)
	if err != nil {
		log.Printf("❌ Session %s: generation failed after %s: %v", s.ID, time.Since(started).Round(time.Millisecond), err)
		m.finish(ctx, s, models.StatusGenerationFailed, "", err)
		if sendErr := m.channel.SendText(ctx, s.ChatID, msgGenerateFailed); sendErr != nil {
			log.Printf("⚠️ Failed to report generation error to user %d: %v", s.UserID, sendErr)
		}
		return fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	log.Printf("✅ Session %s: email drafted in %s", s.ID, time.Since(started).Round(time.Millisecond))

	s.Email = email
	s.State = ChooseCV

	preview := fmt.Sprintf("Here is the email that will be sent:\n\nSubject: %s\n\nBody:\n%s", email.Subject, email.Body)
	if err := m.channel.SendText(ctx, s.ChatID, preview); err != nil {
		return err
	}
	return m.channel.SendButtons(ctx, s.ChatID, msgAskCV, cvButtons)
}

func (m *Machine) chooseCV(ctx context.Context, s *Session, ev Event) error {
	if ev.Kind != EventCallback {
		return m.reprompt(ctx, s, ev)
	}

	switch ev.CallbackData {
	case CallbackPredefinedCV:
		if err := m.ack(ctx, ev); err != nil {
			return err
		}
		s.CVPath = m.cvs.Predefined()
		s.State = Review
		if err := m.channel.EditText(ctx, s.ChatID, ev.MessageID, msgPredefinedCV); err != nil {
			return err
		}
		return m.channel.SendButtons(ctx, s.ChatID, msgAskSend, reviewButtons)
	case CallbackUploadCV:
		if err := m.ack(ctx, ev); err != nil {
			return err
		}
		s.State = HandleCVUpload
		return m.channel.EditText(ctx, s.ChatID, ev.MessageID, msgAskUpload)
	default:
		return m.reprompt(ctx, s, ev)
	}
}

func (m *Machine) handleCVUpload(ctx context.Context, s *Session, ev Event) error {
	if ev.Kind != EventDocument || ev.Document == nil {
		return m.reprompt(ctx, s, ev)
	}

	data, err := m.channel.Download(ctx, ev.Document.FileID)
	if err != nil {
		log.Printf("⚠️ Session %s: failed to download CV: %v", s.ID, err)
		return m.channel.SendText(ctx, s.ChatID, msgUploadFailed)
	}
	received := "CV received! Proceeding to send the email."
	if isPDF(ev.Document) {
		if pages, err := cv.PageCount(data); err == nil {
			received = fmt.Sprintf("CV received (%d pages)! Proceeding to send the email.", pages)
		} else {
			log.Printf("⚠️ Session %s: uploaded CV is not a readable PDF: %v", s.ID, err)
		}
	}

	path, err := m.cvs.SaveUpload(s.UserID, data)
	if err != nil {
		log.Printf("⚠️ Session %s: %v", s.ID, err)
		return m.channel.SendText(ctx, s.ChatID, msgUploadFailed)
	}
	s.CVPath = path
	s.State = Review
	log.Printf("📎 Session %s: CV saved to %s (%d bytes)", s.ID, path, len(data))

	if err := m.channel.SendText(ctx, s.ChatID, received); err != nil {
		return err
	}
	return m.channel.SendButtons(ctx, s.ChatID, msgAskSend, reviewButtons)
}

func (m *Machine) review(ctx context.Context, s *Session, ev Event) error {
	if ev.Kind != EventCallback {
		return m.reprompt(ctx, s, ev)
	}

	switch ev.CallbackData {
	case CallbackSend:
		if err := m.ack(ctx, ev); err != nil {
			return err
		}
		return m.send(ctx, s, ev.MessageID)
	case CallbackDontSend:
		if err := m.ack(ctx, ev); err != nil {
			return err
		}
		m.finish(ctx, s, models.StatusNotSent, "", nil)
		return m.channel.EditText(ctx, s.ChatID, ev.MessageID, msgNotSent)
	default:
		return m.reprompt(ctx, s, ev)
	}
}

func (m *Machine) send(ctx context.Context, s *Session, messageID int) error {
	if !s.readyToSend() {
		// unreachable through the flow; kept so a bad session can never send
		err := errors.New("session has no recipient or draft")
		m.finish(ctx, s, models.StatusFailed, "", err)
		return m.channel.EditText(ctx, s.ChatID, messageID, msgSendFailed)
	}

	log.Printf("📤 Session %s: sending email to %s (cv: %q)", s.ID, s.RecipientEmail, s.CVPath)
	id, err := m.mailer.Send(ctx, s.RecipientEmail, s.Email.Subject, s.Email.Body, s.CVPath)
	if err != nil {
		m.finish(ctx, s, models.StatusFailed, "", err)
		return m.channel.EditText(ctx, s.ChatID, messageID, msgSendFailed)
	}

	if m.history != nil {
		m.history.MarkSent(s.RecipientEmail)
	}
	m.finish(ctx, s, models.StatusSent, id, nil)
	return m.channel.EditText(ctx, s.ChatID, messageID, fmt.Sprintf("%s (Message ID: %s)", msgSent, id))
}

// finish moves s to Terminal, evicts it and journals the outcome.
func (m *Machine) finish(ctx context.Context, s *Session, status models.ApplicationStatus, messageID string, cause error) {
	from := s.State
	s.State = Terminal
	m.sessions.evict(s)
	log.Printf("🏁 Session %s: %s -> %s (%s)", s.ID, from, s.State, status)

	if m.journal == nil {
		return
	}
	app := &models.Application{
		ID:             uuid.NewString(),
		SessionID:      s.ID,
		TelegramID:     s.UserID,
		Recipient:      s.RecipientEmail,
		JobDescription: s.JobDescription,
		Subject:        s.Email.Subject,
		CVPath:         s.CVPath,
		MessageID:      messageID,
		Status:         status,
		CreatedAt:      time.Now(),
	}
	if cause != nil {
		app.Error = cause.Error()
	}
	if err := m.journal.Record(ctx, app); err != nil {
		log.Printf("⚠️ Failed to journal session %s: %v", s.ID, err)
	}
}

// reprompt repeats the current question; the state does not change.
func (m *Machine) reprompt(ctx context.Context, s *Session, ev Event) error {
	if err := m.ack(ctx, ev); err != nil {
		return err
	}

	var text string
	switch s.State {
	case CollectEmail:
		text = msgAskEmail
	case CollectJobDescription:
		text = msgRepromptJob
	case HandleCVUpload:
		text = msgInvalidUpload
	default:
		text = msgChooseOption
	}
	return m.channel.SendText(ctx, s.ChatID, text)
}

// ack answers a button press so the client stops its spinner.
func (m *Machine) ack(ctx context.Context, ev Event) error {
	if ev.Kind != EventCallback || ev.CallbackID == "" {
		return nil
	}
	return m.channel.AnswerCallback(ctx, ev.CallbackID)
}

func isPDF(doc *Document) bool {
	return doc.MimeType == "application/pdf" || strings.EqualFold(filepath.Ext(doc.FileName), ".pdf")
}
