package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "local", cfg.Store.Driver)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout())
	assert.False(t, cfg.Session.AutoConfirm)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  model: gemini-2.0-flash
  timeout: 10s
store:
  driver: remote
  base_url: http://localhost:3000
session:
  auto_confirm: true
logging:
  debug: true
  level: debug
  categories:
    store: false
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, 10*time.Second, cfg.LLMTimeout())
	assert.Equal(t, "remote", cfg.Store.Driver)
	assert.True(t, cfg.Session.AutoConfirm)
	assert.True(t, cfg.Logging.Debug)
	assert.False(t, cfg.Logging.Categories["store"])
}

func TestLoadValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: remote\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("TASKPILOT_API_URL", "http://localhost:3000")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.LLM.APIKey)
	assert.Equal(t, "remote", cfg.Store.Driver)
	assert.Equal(t, "http://localhost:3000", cfg.Store.BaseURL)
}

func TestBadDurationFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Timeout = "not a duration"
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout())
}
