package mail

import (
	"context"
	"fmt"
	"log"
)

// Sender delivers an encoded message and returns the provider's id for it.
type Sender interface {
	Send(ctx context.Context, msg []byte) (string, error)
}

// Mailer composes a draft and hands it to a Sender.
type Mailer struct {
	composer *Composer
	sender   Sender
	from     string
}

func NewMailer(composer *Composer, sender Sender, from string) *Mailer {
	return &Mailer{composer: composer, sender: sender, from: from}
}

// Send composes and delivers one email. There is no retry: any failure is
// logged and returned, and nothing was handed to the sender unless the
// whole message was built.
func (m *Mailer) Send(ctx context.Context, to, subject, body, attachmentPath string) (string, error) {
	msg, err := m.composer.Compose(Draft{
		From:           m.from,
		To:             to,
		Subject:        subject,
		Body:           body,
		AttachmentPath: attachmentPath,
	})
	if err != nil {
		log.Printf("❌ Failed to compose email to %s: %v", to, err)
		return "", fmt.Errorf("compose: %w", err)
	}

	id, err := m.sender.Send(ctx, msg)
	if err != nil {
		log.Printf("❌ Failed to send email to %s: %v", to, err)
		return "", fmt.Errorf("send: %w", err)
	}

	log.Printf("📨 Email sent! Message ID: %s", id)
	return id, nil
}
