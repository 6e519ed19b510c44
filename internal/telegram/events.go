package telegram

import (
	"go-openclaw-mailer/internal/conversation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ToEvent converts a Telegram update into a conversation event. Updates the
// bot has no use for (edited messages, channel posts...) return false.
func ToEvent(update tgbotapi.Update) (conversation.Event, bool) {
	if q := update.CallbackQuery; q != nil {
		if q.From == nil {
			return conversation.Event{}, false
		}
		ev := conversation.Event{
			UserID:       q.From.ID,
			ChatID:       q.From.ID,
			Kind:         conversation.EventCallback,
			CallbackData: q.Data,
			CallbackID:   q.ID,
		}
		if q.Message != nil {
			ev.MessageID = q.Message.MessageID
			if q.Message.Chat != nil {
				ev.ChatID = q.Message.Chat.ID
			}
		}
		return ev, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return conversation.Event{}, false
	}

	ev := conversation.Event{
		UserID: msg.From.ID,
		ChatID: msg.Chat.ID,
		Kind:   conversation.EventOther,
	}
	switch {
	case msg.IsCommand():
		switch msg.Command() {
		case "start":
			ev.Kind = conversation.EventStart
		case "cancel":
			ev.Kind = conversation.EventCancel
		}
	case msg.Document != nil:
		ev.Kind = conversation.EventDocument
		ev.Document = &conversation.Document{
			FileID:   msg.Document.FileID,
			FileName: msg.Document.FileName,
			MimeType: msg.Document.MimeType,
			Size:     int64(msg.Document.FileSize),
		}
	case msg.Text != "":
		ev.Kind = conversation.EventText
		ev.Text = msg.Text
	}
	return ev, true
}
