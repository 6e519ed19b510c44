package cmd

import (
	"fmt"

	"go-openclaw-mailer/internal/browser"
	"go-openclaw-mailer/internal/cv"
	"go-openclaw-mailer/internal/pdf"

	"github.com/spf13/cobra"
)

var (
	renderOut     string
	renderPreview string
)

var renderCVCmd = &cobra.Command{
	Use:   "render-cv",
	Short: "Render the master resume into the predefined CV PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		resume, err := pdf.LoadResume(cfg.ResumePath)
		if err != nil {
			return err
		}

		out := renderOut
		if out == "" {
			out = cfg.PredefinedCVPath
		}

		pm, err := browser.NewPlaywright(cmd.Context())
		if err != nil {
			return err
		}
		defer pm.Close()

		gen := pdf.NewGenerator(cfg.CVTemplatePath, pm)
		if renderPreview != "" {
			if err := gen.Preview(resume, renderPreview); err != nil {
				return err
			}
		}

		data, err := gen.Generate(resume)
		if err != nil {
			return err
		}
		if err := pdf.SaveToFile(data, out); err != nil {
			return err
		}

		pages, err := cv.PageCount(data)
		if err != nil {
			return fmt.Errorf("rendered PDF is unreadable: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ CV written to %s (%d page(s))\n", out, pages)
		return nil
	},
}

func init() {
	renderCVCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output path (defaults to predefined_cv_path)")
	renderCVCmd.Flags().StringVar(&renderPreview, "preview", "", "also write a PNG screenshot of the rendered CV")
	rootCmd.AddCommand(renderCVCmd)
}
