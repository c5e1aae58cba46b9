package main

import (
	"fmt"
	"time"

	"github.com/chris/journal/config"
	"github.com/chris/journal/internal/companion"
	"github.com/chris/journal/internal/db"
	"github.com/chris/journal/internal/journal"
	"github.com/chris/journal/internal/llm"
	"github.com/chris/journal/internal/prompts"
	"go.uber.org/zap"
)

// ackTimeout bounds how long a saved entry waits for a model reply.
const ackTimeout = 20 * time.Second

// app holds what every long-running command shares.
type app struct {
	cfg       *config.Config
	db        *db.DB
	companion *companion.Companion
}

func newApp(cfg *config.Config, sender companion.Sender, logger *zap.Logger) (*app, error) {
	catalog, err := prompts.Load(cfg.PromptsFile)
	if err != nil {
		return nil, fmt.Errorf("loading prompts: %w", err)
	}

	var ack companion.Acknowledger = companion.StaticAcknowledger{}
	client, err := llm.NewClient(llm.ProviderConfig{
		Provider:  cfg.LLMProvider,
		APIKey:    cfg.LLMKey(),
		AuthToken: cfg.AnthropicToken,
		Model:     cfg.LLMModel,
		BaseURL:   cfg.OllamaBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	if client != nil {
		ack = llm.NewAcknowledger(client, companion.StaticAcknowledger{}, ackTimeout, logger)
		logger.Info("model acknowledgements enabled", zap.String("provider", cfg.LLMProvider))
	}

	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	comp := companion.New(database, sender, catalog, companion.Options{
		Location: cfg.Location(),
		DefaultSchedule: journal.SchedulePreference{
			Day:     cfg.DefaultPromptDay,
			Hour:    cfg.DefaultPromptHour,
			Enabled: true,
		},
		MaxHistory:   cfg.MaxHistory,
		Acknowledger: ack,
		Logger:       logger,
	})
	return &app{cfg: cfg, db: database, companion: comp}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
