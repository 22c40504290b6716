package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	strutil "nachweis/pkg/platform/strings"
)

// Config is the explicit configuration object handed to every engine
// component at startup. There is no package-level mutable state; main builds
// one of these and passes it down.
type Config struct {
	Addr string

	// PostgresDSN is optional. Empty means in-memory stores, which is the
	// mode unit tests and local development run in.
	PostgresDSN string

	// RedisURL is optional. Empty disables the compliance status cache and
	// every read recomputes.
	RedisURL string

	// KafkaBrokers is optional. Empty routes notification requests to the
	// log sink instead of Kafka.
	KafkaBrokers []string
	KafkaTopic   string

	// ReminderInterval is how often the scheduler sweeps for due jobs.
	ReminderInterval time.Duration

	// ReminderBackoff is the gap between reminder sends for one job.
	ReminderBackoff time.Duration

	// BackoffPolicy selects "fixed" (default) or "exponential" rescheduling.
	BackoffPolicy string

	// MaxReminderAttempts is the attempt count at which a job escalates.
	MaxReminderAttempts int

	// ExpiryWarningWindow is how far ahead of validUntil a document counts
	// as expiring.
	ExpiryWarningWindow time.Duration

	LogLevel slog.Level
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:                envOr("NACHWEIS_ADDR", ":8080"),
		PostgresDSN:         os.Getenv("NACHWEIS_POSTGRES_DSN"),
		RedisURL:            os.Getenv("NACHWEIS_REDIS_URL"),
		KafkaTopic:          envOr("NACHWEIS_KAFKA_TOPIC", "nachweis.notifications"),
		ReminderInterval:    envDuration("NACHWEIS_REMINDER_INTERVAL", time.Minute),
		ReminderBackoff:     envDuration("NACHWEIS_REMINDER_BACKOFF", 24*time.Hour),
		BackoffPolicy:       envOr("NACHWEIS_BACKOFF_POLICY", "fixed"),
		MaxReminderAttempts: envInt("NACHWEIS_MAX_REMINDER_ATTEMPTS", 5),
		ExpiryWarningWindow: envDuration("NACHWEIS_EXPIRY_WARNING_WINDOW", 30*24*time.Hour),
		LogLevel:            slog.LevelInfo,
	}
	if brokers := os.Getenv("NACHWEIS_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strutil.DedupeAndTrim(strings.Split(brokers, ","))
	}
	if os.Getenv("NACHWEIS_LOG_DEBUG") == "true" {
		cfg.LogLevel = slog.LevelDebug
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
