package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go-openclaw-mailer/internal/models"

	"github.com/playwright-community/playwright-go"
)

// PageOpener hands out fresh browser pages. *browser.PlaywrightManager
// satisfies it.
type PageOpener interface {
	NewPage() (playwright.Page, error)
}

// Generator renders the master Resume into the predefined CV attachment.
type Generator struct {
	templatePath string
	pages        PageOpener
}

func NewGenerator(templatePath string, pages PageOpener) *Generator {
	return &Generator{
		templatePath: templatePath,
		pages:        pages,
	}
}

// RenderHTML executes the resume template.
func (g *Generator) RenderHTML(resume *models.Resume) (string, error) {
	// "join" flattens the skill lists
	funcMap := template.FuncMap{
		"join": strings.Join,
	}

	tmpl, err := template.New(filepath.Base(g.templatePath)).Funcs(funcMap).ParseFiles(g.templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, resume); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// Generate renders the resume to an A4 PDF.
func (g *Generator) Generate(resume *models.Resume) ([]byte, error) {
	page, err := g.load(resume)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	pdfBytes, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("0"),
			Bottom: playwright.String("0"),
			Left:   playwright.String("0"),
			Right:  playwright.String("0"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}
	return pdfBytes, nil
}

// Preview writes a full-page PNG of the rendered resume, handy for checking
// the layout without opening the PDF.
func (g *Generator) Preview(resume *models.Resume, outputPath string) error {
	page, err := g.load(resume)
	if err != nil {
		return err
	}
	defer page.Close()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("could not create directory: %w", err)
	}
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(outputPath),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return fmt.Errorf("could not capture preview: %w", err)
	}
	log.Printf("📸 Preview saved to %s", outputPath)
	return nil
}

func (g *Generator) load(resume *models.Resume) (playwright.Page, error) {
	htmlContent, err := g.RenderHTML(resume)
	if err != nil {
		return nil, err
	}

	page, err := g.pages.NewPage()
	if err != nil {
		return nil, err
	}
	if err := page.SetContent(htmlContent, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		page.Close()
		return nil, fmt.Errorf("could not set page content: %w", err)
	}
	return page, nil
}

// SaveToFile writes the PDF, creating parent directories.
func SaveToFile(pdfBytes []byte, outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory: %w", err)
	}
	return os.WriteFile(outputPath, pdfBytes, 0644)
}
