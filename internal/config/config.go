// Package config loads taskpilot configuration from YAML with environment
// overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all taskpilot configuration.
type Config struct {
	// LLM configuration for the semantic parser
	LLM LLMConfig `yaml:"llm"`

	// Store selects and configures persistence
	Store StoreConfig `yaml:"store"`

	// Session tuning
	Session SessionConfig `yaml:"session"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the semantic parsing model.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Driver is "local" (embedded SQLite) or "remote" (the app's HTTP API).
	Driver       string `yaml:"driver"`
	DatabasePath string `yaml:"database_path"`
	BaseURL      string `yaml:"base_url"`
}

// SessionConfig tunes the voice session controller.
type SessionConfig struct {
	// AutoConfirm executes parsed commands without an explicit confirm step.
	AutoConfirm bool   `yaml:"auto_confirm"`
	Timeout     string `yaml:"timeout"`
}

// LoggingConfig configures debug logging.
type LoggingConfig struct {
	Debug      bool            `yaml:"debug"`
	Dir        string          `yaml:"dir"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			Timeout:  "30s",
		},
		Store: StoreConfig{
			Driver:       "local",
			DatabasePath: ".taskpilot/taskpilot.db",
		},
		Session: SessionConfig{
			AutoConfirm: false,
			Timeout:     "30s",
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   ".taskpilot/logs",
		},
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Secrets belong
// in the environment, not the config file.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if url := os.Getenv("TASKPILOT_API_URL"); url != "" {
		c.Store.BaseURL = url
		c.Store.Driver = "remote"
	}
	if path := os.Getenv("TASKPILOT_DB"); path != "" {
		c.Store.DatabasePath = path
	}
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "local":
		if c.Store.DatabasePath == "" {
			return fmt.Errorf("store.database_path required for local driver")
		}
	case "remote":
		if c.Store.BaseURL == "" {
			return fmt.Errorf("store.base_url required for remote driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// LLMTimeout parses the llm.timeout duration, with a 30 second default.
func (c *Config) LLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 30*time.Second)
}

// SessionTimeout parses the session.timeout duration, with a 30 second
// default.
func (c *Config) SessionTimeout() time.Duration {
	return parseDuration(c.Session.Timeout, 30*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
