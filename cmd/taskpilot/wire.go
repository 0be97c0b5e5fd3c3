package main

import (
	"fmt"

	"go.uber.org/zap"

	"taskpilot/internal/executor"
	"taskpilot/internal/llm"
	"taskpilot/internal/parser"
	"taskpilot/internal/session"
	"taskpilot/internal/store"
)

// buildSession assembles the full pipeline from config. The returned cleanup
// function releases the store.
func buildSession() (*session.Controller, func(), error) {
	var (
		data    store.DataAccess
		cleanup = func() {}
	)
	switch cfg.Store.Driver {
	case "remote":
		data = store.NewRemoteStore(cfg.Store.BaseURL)
		logger.Debug("using remote store", zap.String("base_url", cfg.Store.BaseURL))
	default:
		local, err := store.NewLocalStore(cfg.Store.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open local store: %w", err)
		}
		data = local
		cleanup = func() { local.Close() }
		logger.Debug("using local store", zap.String("path", cfg.Store.DatabasePath))
	}

	var client llm.Client
	if cfg.LLM.APIKey != "" {
		client = llm.NewGeminiClientWithConfig(llm.GeminiConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLMTimeout(),
		})
	} else {
		logger.Warn("no API key configured, running pattern-only")
	}

	opts := []session.Option{session.WithTimeout(cfg.SessionTimeout())}
	if cfg.Session.AutoConfirm {
		opts = append(opts, session.WithAutoConfirm())
	}
	ctrl := session.New(parser.New(client), executor.New(data), opts...)
	return ctrl, cleanup, nil
}
