package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Session  SessionConfig
	Ledger   LedgerConfig
	Snapshot SnapshotConfig
	Events   EventsConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// SessionConfig holds the settings of the current-fund session cookie.
// An empty Key means a random key is generated on startup.
type SessionConfig struct {
	Key string
	TTL time.Duration
}

// LedgerConfig holds ledger computation and display settings.
type LedgerConfig struct {
	Precision       int
	DefaultFundName string
	Currency        string
}

// SnapshotConfig holds the cron schedule of the ledger snapshot job.
// An empty Schedule disables the job.
type SnapshotConfig struct {
	Schedule string
}

// EventsConfig holds the entry event publisher settings.
// Without brokers, events are discarded.
type EventsConfig struct {
	Brokers []string
	Topic   string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	precision, err := getEnvInt("DECIMAL_PRECISION", 4)
	if err != nil {
		return nil, err
	}
	if precision < 0 || precision > 10 {
		return nil, fmt.Errorf("DECIMAL_PRECISION must be between 0 and 10, got %d", precision)
	}

	ttl, err := getEnvDuration("SESSION_TTL", 720*time.Hour)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5000"),
			Host: getEnv("SERVER_HOST", "127.0.0.1"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/fund_analysis.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Session: SessionConfig{
			Key: os.Getenv("SESSION_KEY"),
			TTL: ttl,
		},
		Ledger: LedgerConfig{
			Precision:       precision,
			DefaultFundName: getEnv("DEFAULT_FUND_NAME", "Default Fund"),
			Currency:        getEnv("DISPLAY_CURRENCY", "CNY"),
		},
		Snapshot: SnapshotConfig{
			Schedule: getEnvOptional("SNAPSHOT_SCHEDULE", "@daily"),
		},
		Events: EventsConfig{
			Brokers: getEnvList("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "fund_entry_events"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvOptional is getEnv, except that a variable set to an empty value
// stays empty instead of falling back to the default.
func getEnvOptional(key, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return strings.TrimSpace(value)
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
