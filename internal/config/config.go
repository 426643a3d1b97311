// Package config provides environment configuration for the API server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// History backends.
const (
	HistoryBolt     = "bolt"
	HistoryNATS     = "nats"
	HistoryPostgres = "postgres"
	HistoryMemory   = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	AllowedOrigins     []string

	// Generation settings
	LLMProvider     string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	TextModel       string
	ImageModel      string

	// History settings
	HistoryBackend  string
	HistoryBoltPath string
	DatabaseURL     string

	// NATS settings
	NATSURL       string
	NATSCAFile    string
	NATSCertFile  string
	NATSKeyFile   string
	NATSToken     string
	EventsEnabled bool

	// JWT settings; an empty secret disables authentication
	JWTSecret string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables. Values from a .env file
// in the working directory are used for variables that are not already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 5*time.Minute),
		AllowedOrigins:     getListEnv("CORS_ALLOWED_ORIGINS"),

		// Generation
		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		TextModel:       getEnv("TEXT_MODEL", ""),
		ImageModel:      getEnv("IMAGE_MODEL", ""),

		// History
		HistoryBackend:  strings.ToLower(getEnv("HISTORY_BACKEND", HistoryBolt)),
		HistoryBoltPath: getEnv("HISTORY_BOLT_PATH", "data/history.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),

		// NATS
		NATSURL:       getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:    getEnv("NATS_CA_FILE", ""),
		NATSCertFile:  getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:   getEnv("NATS_KEY_FILE", ""),
		NATSToken:     getEnv("NATS_TOKEN", ""),
		EventsEnabled: getBoolEnv("EVENTS_ENABLED", false),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", ""),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

// APIKey returns the credential of the selected provider.
func (c *Config) APIKey() string {
	switch c.LLMProvider {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}

// NATSRequired reports whether a NATS connection is needed.
func (c *Config) NATSRequired() bool {
	return c.EventsEnabled || c.HistoryBackend == HistoryNATS
}

// Validate rejects inconsistent settings. A missing model credential is
// allowed.
func (c *Config) Validate() error {
	var errs []error

	switch c.LLMProvider {
	case "gemini", "openai", "anthropic":
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}

	switch c.HistoryBackend {
	case HistoryBolt:
		if c.HistoryBoltPath == "" {
			errs = append(errs, errors.New("HISTORY_BOLT_PATH is required for the bolt history backend"))
		}
	case HistoryPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres history backend"))
		}
	case HistoryNATS, HistoryMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown HISTORY_BACKEND %q", c.HistoryBackend))
	}

	if c.NATSRequired() && c.NATSURL == "" {
		errs = append(errs, errors.New("NATS_URL is required when events or the nats history backend are enabled"))
	}
	if c.RateLimitRequests <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS must be positive"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
