package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("GROQ_KEY", "gsk_test")
	t.Setenv("SENDER_EMAIL", "me@example.com")
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load(writeConfig(t, "applicant:\n  full_name: Jane Doe\n"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, "gsk_test", cfg.LLM.GroqKey)
	assert.Equal(t, 0.6, cfg.LLM.Body.Temperature)
	assert.Equal(t, 1.0, cfg.LLM.Subject.Temperature)
	assert.Equal(t, 650, cfg.LLM.Subject.MaxTokens)
	assert.Equal(t, "gmail", cfg.Mail.Provider)
	assert.Equal(t, "token.json", cfg.Mail.TokenFile)
	assert.Equal(t, "cv.pdf", cfg.PredefinedCVPath)
	assert.Equal(t, "Jane Doe", cfg.Applicant.FullName)
	assert.Equal(t, "configs/resume.json", cfg.ResumePath)
	assert.NoError(t, cfg.RequireLLM())
	assert.NoError(t, cfg.RequireMail())
	assert.NoError(t, cfg.RequireTelegram())
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("GROQ_KEY", "gsk_test")
	t.Setenv("SENDER_EMAIL", "env@example.com")
	t.Setenv("PORT", "9999")

	cfg, err := Load(writeConfig(t, "port: \"7000\"\nmail:\n  sender_email: yaml@example.com\n"))
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "env@example.com", cfg.Mail.SenderEmail)
}

func TestLoad_UnknownProviders(t *testing.T) {
	for _, body := range []string{
		"llm:\n  provider: other\n",
		"mail:\n  provider: smtp\n",
	} {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, body)
	}
}

func TestRequireCredentials(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		require func(*Config) error
	}{
		{
			name:    "missing groq key",
			env:     map[string]string{"GROQ_KEY": ""},
			require: (*Config).RequireLLM,
		},
		{
			name:    "gemini without key",
			yaml:    "llm:\n  provider: gemini\n",
			env:     map[string]string{"GEMINI_API_KEY": ""},
			require: (*Config).RequireLLM,
		},
		{
			name:    "missing sender",
			env:     map[string]string{"SENDER_EMAIL": ""},
			require: (*Config).RequireMail,
		},
		{
			name:    "missing bot token",
			env:     map[string]string{"BOT_TOKEN": ""},
			require: (*Config).RequireTelegram,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(writeConfig(t, tt.yaml))
			require.NoError(t, err)
			assert.Error(t, tt.require(cfg))
		})
	}
}

func TestLoad_GeminiDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "llm:\n  provider: gemini\n  subject:\n    model: gemini-2.5-pro\n"))
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Body.Model)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Subject.Model)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "port: [unclosed"))
	assert.Error(t, err)
}
