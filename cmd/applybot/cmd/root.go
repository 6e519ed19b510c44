package cmd

import (
	"log"

	"go-openclaw-mailer/internal/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "applybot",
	Short: "Telegram assistant that drafts and sends internship applications",
	Long: `applybot walks a user through one internship application per session:
recipient address, job description, an AI-drafted email, a CV choice and a
final confirmation before the email goes out through Gmail.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		fillApplicant(cfg)
		if cfg.Debug {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "path to the YAML config file")
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("❌ %v", err)
		return err
	}
	return nil
}
