package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("HISTORY_BACKEND", "")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, HistoryBolt, cfg.HistoryBackend)
	assert.Empty(t, cfg.APIKey())
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.False(t, cfg.NATSRequired())
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_REQUESTS", "not a number")
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "sk-test", cfg.APIKey())
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 60, cfg.RateLimitRequests)
	assert.True(t, cfg.NATSRequired())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestGeminiKeyFallsBackToAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "legacy")
	t.Setenv("LLM_PROVIDER", "gemini")

	assert.Equal(t, "legacy", Load().APIKey())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LLMProvider:       "gemini",
			HistoryBackend:    HistoryMemory,
			RateLimitRequests: 10,
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"unknown provider":     func(c *Config) { c.LLMProvider = "cohere" },
		"unknown backend":      func(c *Config) { c.HistoryBackend = "redis" },
		"postgres without url": func(c *Config) { c.HistoryBackend = HistoryPostgres },
		"bolt without path":    func(c *Config) { c.HistoryBackend = HistoryBolt },
		"events without nats":  func(c *Config) { c.EventsEnabled = true },
		"zero rate limit":      func(c *Config) { c.RateLimitRequests = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
