// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	NATS        NATSConfig
	Submission  SubmissionConfig
	Dedupe      DedupeConfig
	Insights    InsightsConfig
	Extraction  ExtractionConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// RedisConfig holds draft-store Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// SubmissionConfig holds submission pipeline configuration
type SubmissionConfig struct {
	SubmitTimeout time.Duration
	DraftDebounce time.Duration
	EventsTopic   string
	MaxUploadSize int64
}

// DedupeConfig holds duplicate detection configuration
type DedupeConfig struct {
	Window time.Duration
}

// InsightsConfig holds dashboard aggregation configuration
type InsightsConfig struct {
	Interval    time.Duration
	Window      time.Duration
	EventsTopic string
}

// ExtractionConfig holds metadata extraction configuration
type ExtractionConfig struct {
	Timeout            time.Duration
	TwitterBearerToken string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "wavesight"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Submission: SubmissionConfig{
			SubmitTimeout: getEnvAsDuration("SUBMISSION_TIMEOUT", 30*time.Second),
			DraftDebounce: getEnvAsDuration("SUBMISSION_DRAFT_DEBOUNCE", 1*time.Second),
			EventsTopic:   getEnv("SUBMISSION_EVENTS_TOPIC", "submission"),
			MaxUploadSize: getEnvAsInt64("SUBMISSION_MAX_UPLOAD_SIZE", 10<<20),
		},
		Dedupe: DedupeConfig{
			Window: getEnvAsDuration("DEDUPE_WINDOW", 30*24*time.Hour),
		},
		Insights: InsightsConfig{
			Interval:    getEnvAsDuration("INSIGHTS_INTERVAL", 1*time.Minute),
			Window:      getEnvAsDuration("INSIGHTS_WINDOW", 24*time.Hour),
			EventsTopic: getEnv("INSIGHTS_EVENTS_TOPIC", "insights"),
		},
		Extraction: ExtractionConfig{
			Timeout:            getEnvAsDuration("EXTRACTION_TIMEOUT", 5*time.Second),
			TwitterBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Submission.SubmitTimeout <= 0 {
		return fmt.Errorf("submission timeout must be positive")
	}
	if config.Submission.DraftDebounce <= 0 {
		return fmt.Errorf("draft debounce must be positive")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
