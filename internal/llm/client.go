// Package llm provides the language-model client used by the semantic
// parsing path.
package llm

import (
	"context"
	"time"
)

// Client is the minimal completion interface the parser depends on.
// Implementations must be safe for concurrent use.
type Client interface {
	// CompleteWithSystem sends a prompt with a system message.
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	Timeout         time.Duration
	MaxOutputTokens int
}

// DefaultGeminiConfig returns sensible defaults for short command
// transduction. Voice turns are latency sensitive, so the timeout is tight.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:          apiKey,
		BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
		Model:           "gemini-2.5-flash",
		Timeout:         30 * time.Second,
		MaxOutputTokens: 1024,
	}
}
