package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_PORT", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 3, cfg.EmailRetries)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.SAMLEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("SMTP_USE_TLS", "yes")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ENVIRONMENT", "production")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.True(t, cfg.SMTPUseTLS)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestSAMLEnabled(t *testing.T) {
	cfg := &Config{
		SAMLRootURL:     "https://tracker.example",
		SAMLMetadataURL: "https://idp.example/metadata",
		SAMLCertFile:    "sp.crt",
	}
	assert.False(t, cfg.SAMLEnabled())

	cfg.SAMLKeyFile = "sp.key"
	assert.True(t, cfg.SAMLEnabled())
}
