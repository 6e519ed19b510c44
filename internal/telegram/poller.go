package telegram

import (
	"context"
	"fmt"
	"log"

	"go-openclaw-mailer/internal/conversation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Poll long-polls Telegram and submits every usable update until ctx ends.
// Any webhook registered for the bot is removed first, Telegram refuses
// getUpdates while one is set.
func Poll(ctx context.Context, api *tgbotapi.BotAPI, submit func(conversation.Event)) error {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	log.Printf("🤖 Polling for updates as @%s", api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if ev, ok := ToEvent(update); ok {
				submit(ev)
			}
		}
	}
}

// RegisterWebhook points Telegram at the bot's webhook URL.
func RegisterWebhook(api *tgbotapi.BotAPI, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	log.Printf("🔗 Webhook registered: %s", url)
	return nil
}
