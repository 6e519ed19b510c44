package cmd

import (
	"fmt"
	"os"

	"go-openclaw-mailer/internal/mail"

	"github.com/spf13/cobra"
)

var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Grant Gmail send access and store the OAuth token",
	Long: `Run the OAuth consent flow for the sender account. A browser URL is
printed; after consent the token is saved to token_file and refreshed
automatically from then on.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		oauth, err := mail.LoadOAuthConfig(cfg.Mail.CredentialsFile)
		if err != nil {
			return err
		}
		store := mail.NewTokenStore(cfg.Mail.TokenFile)
		if err := mail.Authorize(cmd.Context(), oauth, store, os.Stdout); err != nil {
			return err
		}
		fmt.Printf("✅ Token saved to %s\n", cfg.Mail.TokenFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authorizeCmd)
}
