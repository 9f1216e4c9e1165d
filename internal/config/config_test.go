package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/rinkl")
	t.Setenv("GEMINI_API_KEY", "primary")
	t.Setenv("GEMINI_FALLBACK_KEYS", "spare1,spare2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.BotToken)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, []string{"primary", "spare1", "spare2"}, cfg.CandidateKeys())
}

func TestLoad_MissingToken(t *testing.T) {
	// t.Setenv registers the restore, Unsetenv makes the var truly absent
	t.Setenv("BOT_TOKEN", "")
	os.Unsetenv("BOT_TOKEN")
	t.Setenv("DATABASE_URL", "postgres://localhost/rinkl")

	_, err := Load()
	assert.Error(t, err)
}

func TestCandidateKeys_NoPrimary(t *testing.T) {
	cfg := &Config{GeminiFallbacks: []string{"only"}}
	assert.Equal(t, []string{"only"}, cfg.CandidateKeys())

	empty := &Config{}
	assert.Empty(t, empty.CandidateKeys())
}
