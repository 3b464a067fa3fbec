package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port string `json:"port"`
	Host string `json:"host"`

	// Gemini API settings
	GeminiAPIKey  string `json:"-"` // Don't expose in JSON
	GeminiModel   string `json:"gemini_model"`
	GeminiBaseURL string `json:"gemini_base_url"`

	// Article settings
	MaxArticleLength    int `json:"max_article_length"`
	FetchTimeoutSeconds int `json:"fetch_timeout_seconds"`

	// Cache settings
	CacheType          string `json:"cache_type"`     // "memory" or "none"
	CacheDuration      int    `json:"cache_duration"` // in hours
	CacheSweepSchedule string `json:"cache_sweep_schedule"`

	// Export settings
	ExportDir     string `json:"export_dir"`
	ExportBucket  string `json:"export_bucket"`
	ExportPrefix  string `json:"export_prefix"`
	ExportDelayMS int    `json:"export_delay_ms"`
	Brand         string `json:"brand"`

	// LogFile receives the terminal client's log output; empty discards it
	LogFile string `json:"log_file"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:                getEnvOrDefault("PORT", "8080"),
		Host:                getEnvOrDefault("HOST", "0.0.0.0"),
		GeminiAPIKey:        getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:         getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:       getEnvOrDefault("GEMINI_BASE_URL", ""),
		MaxArticleLength:    getEnvOrDefaultInt("MAX_ARTICLE_LENGTH", 100000),
		FetchTimeoutSeconds: getEnvOrDefaultInt("FETCH_TIMEOUT_SECONDS", 30),
		CacheType:           getEnvOrDefault("CACHE_TYPE", "memory"),
		CacheDuration:       getEnvOrDefaultInt("CACHE_DURATION_HOURS", 24),
		CacheSweepSchedule:  getEnvOrDefault("CACHE_SWEEP_SCHEDULE", "@every 10m"),
		ExportDir:           getEnvOrDefault("EXPORT_DIR", "./flashcards"),
		ExportBucket:        getEnvOrDefault("EXPORT_BUCKET", ""),
		ExportPrefix:        getEnvOrDefault("EXPORT_PREFIX", "flashcards/"),
		ExportDelayMS:       getEnvOrDefaultInt("EXPORT_DELAY_MS", 200),
		Brand:               getEnvOrDefault("BRAND", "IQ-Craft"),
		LogFile:             getEnvOrDefault("LOG_FILE", ""),
	}

	return config, config.validate()
}

// validate checks that configured values are usable. A missing Gemini key is
// allowed: the AI capabilities then report themselves unavailable.
func (c *Config) validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return &ConfigError{Field: "PORT", Message: "must be a valid TCP port"}
	}
	if c.MaxArticleLength < 100 {
		return &ConfigError{Field: "MAX_ARTICLE_LENGTH", Message: "must be at least 100"}
	}
	if c.FetchTimeoutSeconds <= 0 {
		return &ConfigError{Field: "FETCH_TIMEOUT_SECONDS", Message: "must be positive"}
	}
	switch c.CacheType {
	case "memory", "none":
	default:
		return &ConfigError{Field: "CACHE_TYPE", Message: "must be memory or none"}
	}
	if c.CacheDuration <= 0 {
		return &ConfigError{Field: "CACHE_DURATION_HOURS", Message: "must be positive"}
	}
	if _, err := cron.ParseStandard(c.CacheSweepSchedule); err != nil {
		return &ConfigError{Field: "CACHE_SWEEP_SCHEDULE", Message: err.Error()}
	}
	if c.ExportDelayMS < 0 {
		return &ConfigError{Field: "EXPORT_DELAY_MS", Message: "must not be negative"}
	}
	if strings.TrimSpace(c.Brand) == "" {
		return &ConfigError{Field: "BRAND", Message: "must not be empty"}
	}
	return nil
}

// AIConfigured reports whether a Gemini API key is set.
func (c *Config) AIConfigured() bool {
	return c.GeminiAPIKey != ""
}

// FetchTimeout returns the article download timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// CacheTTL returns how long summaries stay cached.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheDuration) * time.Hour
}

// ExportDelay returns the pause between exported cards.
func (c *Config) ExportDelay() time.Duration {
	return time.Duration(c.ExportDelayMS) * time.Millisecond
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
