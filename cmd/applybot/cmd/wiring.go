package cmd

import (
	"context"
	"fmt"
	"log"

	"go-openclaw-mailer/internal/ai"
	"go-openclaw-mailer/internal/config"
	"go-openclaw-mailer/internal/conversation"
	"go-openclaw-mailer/internal/cv"
	"go-openclaw-mailer/internal/database"
	"go-openclaw-mailer/internal/dedup"
	"go-openclaw-mailer/internal/mail"
	"go-openclaw-mailer/internal/pdf"
	"go-openclaw-mailer/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// fillApplicant completes the applicant profile from the master resume, so
// config.yaml only needs the fields the resume does not carry.
func fillApplicant(c *config.Config) {
	resume, err := pdf.LoadResume(c.ResumePath)
	if err != nil {
		log.Printf("ℹ️ Applicant profile from config only: %v", err)
		return
	}
	c.Applicant = c.Applicant.Fill(resume.Applicant())
}

func newGenerator(ctx context.Context, c *config.Config) (ai.TextGenerator, error) {
	if err := c.RequireLLM(); err != nil {
		return nil, err
	}
	switch c.LLM.Provider {
	case "gemini":
		return ai.NewGeminiClient(ctx, c.LLM.GeminiAPIKey)
	default:
		return ai.NewGroqClient(c.LLM.GroqKey), nil
	}
}

func toRequest(s config.Sampling) ai.Request {
	return ai.Request{
		Model:       s.Model,
		Temperature: s.Temperature,
		TopP:        s.TopP,
		MaxTokens:   s.MaxTokens,
	}
}

func newWriter(ctx context.Context, c *config.Config) (*ai.Writer, error) {
	gen, err := newGenerator(ctx, c)
	if err != nil {
		return nil, err
	}
	return ai.NewWriter(gen, c.Applicant, toRequest(c.LLM.Body), toRequest(c.LLM.Subject)), nil
}

func newMailer(c *config.Config) (*mail.Mailer, error) {
	if err := c.RequireMail(); err != nil {
		return nil, err
	}

	composer := &mail.Composer{
		PortfolioURL:   c.Applicant.PortfolioURL,
		GitHubURL:      c.Applicant.GitHubURL,
		AttachmentName: c.Mail.AttachmentName,
	}

	var sender mail.Sender
	switch c.Mail.Provider {
	case "log":
		log.Println("📝 Mail provider is 'log': emails are printed, not sent")
		sender = mail.NewLogSender()
	default:
		oauth, err := mail.LoadOAuthConfig(c.Mail.CredentialsFile)
		if err != nil {
			return nil, err
		}
		sender = mail.NewGmailSender(oauth, mail.NewTokenStore(c.Mail.TokenFile))
	}
	return mail.NewMailer(composer, sender, c.Mail.SenderEmail), nil
}

// openJournal connects to Postgres when a DATABASE_URL is configured. A nil
// repository means journaling is off.
func openJournal(ctx context.Context, c *config.Config) (*database.Repository, error) {
	if c.DatabaseURL == "" {
		log.Println("ℹ️ DATABASE_URL not set, application journal disabled")
		return nil, nil
	}
	repo, err := database.ConnectDB(ctx, c.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

// app is everything a running bot needs.
type app struct {
	bot     *telegram.Bot
	machine *conversation.Machine
	journal *database.Repository
}

func (a *app) Close() {
	if a.journal != nil {
		a.journal.Close()
	}
}

func buildApp(ctx context.Context, c *config.Config, channel conversation.Channel) (*app, error) {
	writer, err := newWriter(ctx, c)
	if err != nil {
		return nil, err
	}
	mailer, err := newMailer(c)
	if err != nil {
		return nil, err
	}

	cvs := cv.NewStore(c.PredefinedCVPath, c.UploadDir)
	cvs.CheckPredefined()

	opts := []conversation.Option{
		conversation.WithHistory(dedup.NewRecipientCache(c.CachePath)),
	}
	journal, err := openJournal(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to open application journal: %w", err)
	}
	if journal != nil {
		opts = append(opts, conversation.WithJournal(journal))
	}

	return &app{
		machine: conversation.NewMachine(channel, writer, mailer, cvs, opts...),
		journal: journal,
	}, nil
}

// buildTelegramApp wires the machine to a live Telegram bot.
func buildTelegramApp(ctx context.Context, c *config.Config) (*app, *tgbotapi.BotAPI, error) {
	if err := c.RequireTelegram(); err != nil {
		return nil, nil, err
	}
	api, err := telegram.NewBotAPI(c.TelegramToken, c.Debug)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("🤖 Authorized on account @%s", api.Self.UserName)

	bot := telegram.NewBot(api)
	a, err := buildApp(ctx, c, bot)
	if err != nil {
		return nil, nil, err
	}
	a.bot = bot
	return a, api, nil
}
