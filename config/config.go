package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	DiscordToken string
	DatabasePath string

	Timezone            string // fixed reference zone for every user
	TickCron            string
	DefaultPromptDay    int    // 0=Monday
	DefaultPromptHour   int
	MaxHistory          int
	PromptsFile         string // empty means the embedded catalog
	DispatchConcurrency int
	HealthAddr          string // empty disables the health server

	LLMProvider    string // empty, anthropic, openai, ollama
	AnthropicKey   string // API key (X-Api-Key header)
	AnthropicToken string // OAuth token (Authorization: Bearer header)
	OpenAIKey      string
	LLMModel       string
	OllamaBaseURL  string

	LogLevel string
}

// ConfigDir is where the installed service keeps its settings.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".journal")
}

func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config")
}

// Load reads the environment, after filling it from ./.env and ConfigFile.
// Variables already set win over both files.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignore error if no .env
	if err := godotenv.Load(ConfigFile()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", ConfigFile(), err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DiscordToken:   os.Getenv("DISCORD_BOT_TOKEN"),
		DatabasePath:   envOr("DATABASE_PATH", "./journal.db"),
		Timezone:       envOr("TIMEZONE", "Asia/Singapore"),
		TickCron:       envOr("TICK_CRON", "0 * * * *"),
		PromptsFile:    os.Getenv("PROMPTS_FILE"),
		HealthAddr:     os.Getenv("HEALTH_ADDR"),
		LLMProvider:    strings.ToLower(os.Getenv("LLM_PROVIDER")),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicToken: os.Getenv("ANTHROPIC_AUTH_TOKEN"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		LLMModel:       os.Getenv("LLM_MODEL"),
		OllamaBaseURL:  envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		LogLevel:       envOr("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.DefaultPromptDay, err = envInt("DEFAULT_PROMPT_DAY", 0); err != nil {
		return nil, err
	}
	if cfg.DefaultPromptHour, err = envInt("DEFAULT_PROMPT_HOUR", 9); err != nil {
		return nil, err
	}
	if cfg.MaxHistory, err = envInt("MAX_HISTORY", 5); err != nil {
		return nil, err
	}
	if cfg.DispatchConcurrency, err = envInt("DISPATCH_CONCURRENCY", 4); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	var errs []error
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err))
	}
	if _, err := cron.ParseStandard(c.TickCron); err != nil {
		errs = append(errs, fmt.Errorf("TICK_CRON %q: %w", c.TickCron, err))
	}
	if c.DefaultPromptDay < 0 || c.DefaultPromptDay > 6 {
		errs = append(errs, fmt.Errorf("DEFAULT_PROMPT_DAY must be 0..6, got %d", c.DefaultPromptDay))
	}
	if c.DefaultPromptHour < 0 || c.DefaultPromptHour > 23 {
		errs = append(errs, fmt.Errorf("DEFAULT_PROMPT_HOUR must be 0..23, got %d", c.DefaultPromptHour))
	}
	if c.MaxHistory < 1 {
		errs = append(errs, fmt.Errorf("MAX_HISTORY must be at least 1, got %d", c.MaxHistory))
	}
	if c.DispatchConcurrency < 1 {
		errs = append(errs, fmt.Errorf("DISPATCH_CONCURRENCY must be at least 1, got %d", c.DispatchConcurrency))
	}
	switch c.LLMProvider {
	case "", "anthropic", "openai", "ollama":
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER %q is not one of anthropic, openai, ollama", c.LLMProvider))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Location is the reference zone. Validate has already checked it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LLMKey picks the API key matching the provider.
func (c *Config) LLMKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIKey
	}
	return c.AnthropicKey
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
