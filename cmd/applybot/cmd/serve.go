package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-openclaw-mailer/internal/conversation"
	"go-openclaw-mailer/internal/dispatch"
	"go-openclaw-mailer/internal/server"
	"go-openclaw-mailer/internal/telegram"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Receive Telegram updates through the webhook server",
	Long: `Start the webhook HTTP server (POST /webhook, GET /) and the per-user
dispatcher. When webhook_url is configured the webhook is registered with
Telegram on startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, api, err := buildTelegramApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if cfg.WebhookURL != "" {
			if err := telegram.RegisterWebhook(api, cfg.WebhookURL); err != nil {
				return err
			}
		}

		d := dispatch.New(a.machine, dispatch.WithReporter(a.bot))
		srv := server.New(cfg.Port, cfg.Debug, d.Submit)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return d.Run(gctx) })
		g.Go(func() error { return srv.Run(gctx) })
		return g.Wait()
	},
}

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Receive Telegram updates by long polling",
	Long:  `Run the bot without a public URL. Any registered webhook is removed first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, api, err := buildTelegramApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		d := dispatch.New(a.machine, dispatch.WithReporter(a.bot))

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return d.Run(gctx) })
		g.Go(func() error {
			return telegram.Poll(gctx, api, func(ev conversation.Event) {
				if err := d.Submit(ev); err != nil {
					log.Printf("⚠️ Dropped %s event from user %d: %v", ev.Kind, ev.UserID, err)
				}
			})
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(pollCmd)
}
