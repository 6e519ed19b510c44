package mail

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// LogSender logs emails instead of sending them.
// Useful for development and testing.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, msg []byte) (string, error) {
	d, err := Decode(msg)
	if err != nil {
		return "", err
	}

	id := "log-" + uuid.NewString()
	log.Printf(`
================================================================================
EMAIL (dev mode - not actually sent) %s
================================================================================
From:        %s
To:          %s
Subject:     %s
Attachments: %d
--------------------------------------------------------------------------------
%s
================================================================================
`, id, d.From, d.To, d.Subject, len(d.Attachments), d.Text)
	return id, nil
}
