package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go-openclaw-mailer/internal/filter"

	"github.com/spf13/cobra"
)

var draftFile string

var draftCmd = &cobra.Command{
	Use:   "draft [job description]",
	Short: "Draft an application email without Telegram",
	Long: `Generate the subject and body for a job description and print them.
The description is taken from the arguments, from --file, or from stdin.
Nothing is sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jd, err := readJobDescription(args, draftFile, cmd.InOrStdin())
		if err != nil {
			return err
		}

		writer, err := newWriter(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		email, err := writer.Write(cmd.Context(), jd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Internship type: %s\n\n", filter.ClassifyInternship(jd))
		fmt.Fprintf(out, "Subject: %s\n\n%s\n", email.Subject, email.Body)
		return nil
	},
}

func readJobDescription(args []string, file string, stdin io.Reader) (string, error) {
	var jd string
	switch {
	case len(args) > 0:
		jd = strings.Join(args, " ")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		jd = string(data)
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		jd = string(data)
	}

	if strings.TrimSpace(jd) == "" {
		return "", fmt.Errorf("empty job description")
	}
	return jd, nil
}

func init() {
	draftCmd.Flags().StringVarP(&draftFile, "file", "f", "", "read the job description from a file")
	rootCmd.AddCommand(draftCmd)
}
