package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Empty(t, cfg.BackendURL)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.LocalBackendURL())
	assert.Equal(t, 15*time.Second, cfg.SubmitTimeout)
	assert.True(t, cfg.ServeSite)
	assert.True(t, cfg.ServeAPI)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BACKEND_URL", "https://api.example.com")
	t.Setenv("SUBMIT_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("SMTP_PASS", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "https://api.example.com", cfg.BackendURL)
	assert.Equal(t, 3*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.SMTP.Enabled())
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=DEBUG\n"), 0o600))
	// t.Setenv restores the original value; godotenv only fills unset keys.
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("SUBMIT_TIMEOUT", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLocalBackendURL_FollowsPort(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("BACKEND_URL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9191", cfg.LocalBackendURL())

	cfg.BackendURL = "https://api.example.com"
	assert.Equal(t, "https://api.example.com", cfg.LocalBackendURL())
}
