package conversation

import (
	"context"
	"time"

	"go-openclaw-mailer/internal/models"
)

type EventKind int

const (
	EventStart EventKind = iota
	EventCancel
	EventText
	EventDocument
	EventCallback
	// EventOther is any input the flow has no use for (stickers, unknown commands).
	EventOther
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventCancel:
		return "cancel"
	case EventText:
		return "text"
	case EventDocument:
		return "document"
	case EventCallback:
		return "callback"
	default:
		return "other"
	}
}

type Document struct {
	FileID   string
	FileName string
	MimeType string
	Size     int64
}

// Event is one inbound chat event.
type Event struct {
	UserID int64
	ChatID int64
	Kind   EventKind

	Text     string
	Document *Document

	// Callback events: the button payload, the query id to acknowledge and
	// the message the button belongs to.
	CallbackData string
	CallbackID   string
	MessageID    int
}

type Button struct {
	Label string
	Data  string
}

// Channel is the chat transport the machine talks back through.
type Channel interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendButtons(ctx context.Context, chatID int64, text string, buttons []Button) error
	EditText(ctx context.Context, chatID int64, messageID int, text string) error
	AnswerCallback(ctx context.Context, callbackID string) error
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// EmailWriter is the Content Generator.
type EmailWriter interface {
	Write(ctx context.Context, jobDescription string) (models.GeneratedEmail, error)
}

// MailSender composes and delivers the final email, returning its id.
type MailSender interface {
	Send(ctx context.Context, to, subject, body, attachmentPath string) (string, error)
}

type CVStore interface {
	Predefined() string
	SaveUpload(userID int64, data []byte) (string, error)
}

// RecipientHistory remembers who was already emailed.
type RecipientHistory interface {
	LastSent(recipient string) (time.Time, bool)
	MarkSent(recipient string)
}

// Journal records how each session ended.
type Journal interface {
	Record(ctx context.Context, app *models.Application) error
}
