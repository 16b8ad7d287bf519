package config

import (
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	AutoMigrate bool

	GenerationBaseURL string
	GenerationTimeout time.Duration

	RegenDebounce     time.Duration
	TypingMinInterval time.Duration

	OutboxBatchSize    int
	WorkerPollInterval time.Duration

	EnableOutboxRelay     bool
	EnableArtifactTrigger bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "tripforge"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		AutoMigrate: envBool("DB_AUTO_MIGRATE", false),

		GenerationBaseURL: os.Getenv("GENERATION_BASE_URL"),
		GenerationTimeout: envDuration("GENERATION_TIMEOUT", 30*time.Second),

		RegenDebounce:     envDuration("REGEN_DEBOUNCE", 800*time.Millisecond),
		TypingMinInterval: envDuration("TYPING_MIN_INTERVAL", 500*time.Millisecond),

		OutboxBatchSize:    100,
		WorkerPollInterval: envDuration("WORKER_POLL_INTERVAL", 2*time.Second),

		EnableOutboxRelay:     envBool("ENABLE_OUTBOX_RELAY", true),
		EnableArtifactTrigger: envBool("ENABLE_ARTIFACT_TRIGGER", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
