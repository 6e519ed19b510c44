package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	historyUser  int64
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled applications for a Telegram user",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openJournal(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if repo == nil {
			return errors.New("DATABASE_URL is required for history")
		}
		defer repo.Close()

		apps, err := repo.ListApplications(cmd.Context(), historyUser, historyLimit)
		if err != nil {
			return err
		}
		if len(apps) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No applications recorded.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tSTATUS\tRECIPIENT\tSUBJECT")
		for _, a := range apps {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.CreatedAt.Format("2006-01-02 15:04"), a.Status, a.Recipient, a.Subject)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().Int64VarP(&historyUser, "user", "u", 0, "Telegram user id")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum rows")
	_ = historyCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(historyCmd)
}
