// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values
// Validate provider names

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"go-openclaw-mailer/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

// Sampling mirrors the knobs sent with every generation request.
type Sampling struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type LLM struct {
	Provider     string   `yaml:"provider"` // groq | gemini
	GroqKey      string   `yaml:"groq_key" env:"GROQ_KEY"`
	GeminiAPIKey string   `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Body         Sampling `yaml:"body"`
	Subject      Sampling `yaml:"subject"`
}

type Mail struct {
	Provider        string `yaml:"provider"` // gmail | log
	SenderEmail     string `yaml:"sender_email" env:"SENDER_EMAIL"`
	CredentialsFile string `yaml:"credentials_file" env:"CREDENTIALS_FILE"`
	TokenFile       string `yaml:"token_file" env:"TOKEN_FILE"`
	// AttachmentName is the filename every CV is attached under.
	AttachmentName string `yaml:"attachment_name"`
}

type Config struct {
	TelegramToken string `yaml:"telegram_token" env:"BOT_TOKEN"`
	WebhookURL    string `yaml:"webhook_url" env:"WEBHOOK_URL"`
	Port          string `yaml:"port" env:"PORT"`
	Debug         bool   `yaml:"debug"`

	LLM       LLM              `yaml:"llm"`
	Mail      Mail             `yaml:"mail"`
	Applicant models.Applicant `yaml:"applicant"`

	//Paths
	PredefinedCVPath string `yaml:"predefined_cv_path"`
	UploadDir        string `yaml:"upload_dir"`
	CachePath        string `yaml:"cache_path"`
	ResumePath       string `yaml:"resume_path"`
	CVTemplatePath   string `yaml:"cv_template_path"`

	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
}

// Load reads .env, the YAML file at path (missing file is not an error),
// applies env overrides and defaults and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("⚠️ Could not read %s: %v", path, err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	override(&c.TelegramToken, "BOT_TOKEN")
	override(&c.WebhookURL, "WEBHOOK_URL")
	override(&c.Port, "PORT")
	override(&c.LLM.GroqKey, "GROQ_KEY")
	override(&c.LLM.GeminiAPIKey, "GEMINI_API_KEY")
	override(&c.Mail.SenderEmail, "SENDER_EMAIL")
	override(&c.Mail.CredentialsFile, "CREDENTIALS_FILE")
	override(&c.Mail.TokenFile, "TOKEN_FILE")
	override(&c.DatabaseURL, "DATABASE_URL")

	if debug := os.Getenv("DEBUG"); debug != "" {
		v, err := strconv.ParseBool(debug)
		if err != nil {
			return fmt.Errorf("invalid DEBUG: %w", err)
		}
		c.Debug = v
	}
	return nil
}

func override(field *string, key string) {
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "groq"
	}
	bodyModel, subjectModel := "llama-3.1-8b-instant", "llama-3.3-70b-versatile"
	if c.LLM.Provider == "gemini" {
		bodyModel, subjectModel = "gemini-2.5-flash", "gemini-2.5-flash"
	}
	defaultSampling(&c.LLM.Body, Sampling{Model: bodyModel, Temperature: 0.6, TopP: 1, MaxTokens: 650})
	defaultSampling(&c.LLM.Subject, Sampling{Model: subjectModel, Temperature: 1, TopP: 1, MaxTokens: 650})

	if c.Mail.Provider == "" {
		c.Mail.Provider = "gmail"
	}
	if c.Mail.CredentialsFile == "" {
		c.Mail.CredentialsFile = "credentials_local.json"
	}
	if c.Mail.TokenFile == "" {
		c.Mail.TokenFile = "token.json"
	}
	if c.Mail.AttachmentName == "" {
		c.Mail.AttachmentName = "cv.pdf"
	}

	if c.PredefinedCVPath == "" {
		c.PredefinedCVPath = "cv.pdf"
	}
	if c.UploadDir == "" {
		c.UploadDir = "."
	}
	if c.CachePath == "" {
		c.CachePath = "../.cache"
	}
	if c.ResumePath == "" {
		c.ResumePath = "configs/resume.json"
	}
	if c.CVTemplatePath == "" {
		c.CVTemplatePath = "templates/cv.html"
	}
}

func defaultSampling(s *Sampling, def Sampling) {
	if s.Model == "" {
		s.Model = def.Model
	}
	if s.Temperature == 0 {
		s.Temperature = def.Temperature
	}
	if s.TopP == 0 {
		s.TopP = def.TopP
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = def.MaxTokens
	}
}

// Validate rejects unknown provider names. Credentials are checked by the
// Require* helpers of the commands that need them.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "groq", "gemini":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	switch c.Mail.Provider {
	case "gmail", "log":
	default:
		return fmt.Errorf("unknown mail provider %q", c.Mail.Provider)
	}
	return nil
}

func (c *Config) RequireLLM() error {
	switch c.LLM.Provider {
	case "groq":
		if c.LLM.GroqKey == "" {
			return errors.New("GROQ_KEY is required for the groq provider")
		}
	case "gemini":
		if c.LLM.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
	}
	return nil
}

func (c *Config) RequireMail() error {
	if c.Mail.SenderEmail == "" {
		return errors.New("SENDER_EMAIL is required")
	}
	return nil
}

func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("BOT_TOKEN is required")
	}
	return nil
}
