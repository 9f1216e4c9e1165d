package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Invite registry
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Completion
	GeminiAPIKey     string   `env:"GEMINI_API_KEY"`
	GeminiFallbacks  []string `env:"GEMINI_FALLBACK_KEYS" envSeparator:","`
	GeminiModel      string   `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	Temperature      float64  `env:"GEMINI_TEMPERATURE" envDefault:"0.7"`
	MaxOutputTokens  int      `env:"GEMINI_MAX_OUTPUT_TOKENS" envDefault:"1000"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// CandidateKeys returns the ordered credential list for the completion
// client: the environment-scoped primary key first (when set), then the
// configured fallbacks.
func (c *Config) CandidateKeys() []string {
	var keys []string
	if c.GeminiAPIKey != "" {
		keys = append(keys, c.GeminiAPIKey)
	}
	keys = append(keys, c.GeminiFallbacks...)
	return keys
}
