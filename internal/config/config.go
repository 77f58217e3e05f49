package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env          string
	Port         string
	JWTSecret    string
	StorageMode  string
	SnapshotPath string
	Database     DatabaseConfig
	Lookup       LookupConfig
}

// DatabaseConfig holds the remote-store connection parameters
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// LookupConfig holds per-source settings for the plate resolution chain.
// Sources are tried in the order they appear here (cheapest first).
type LookupConfig struct {
	Boostr  SourceConfig
	AutoAPI SourceConfig
}

// SourceConfig configures one external plate lookup source
type SourceConfig struct {
	BaseURL    string
	APIKey     string
	DailyLimit int
	Timeout    time.Duration
	Active     bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Env:          getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "3400"),
		JWTSecret:    jwtSecret,
		StorageMode:  getEnv("STORAGE_MODE", "local"),
		SnapshotPath: os.Getenv("LOCAL_SNAPSHOT"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "taller"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Lookup: LookupConfig{
			Boostr: SourceConfig{
				BaseURL:    getEnv("BOOSTR_URL", "https://api.boostr.cl"),
				APIKey:     os.Getenv("BOOSTR_API_KEY"),
				DailyLimit: getEnvInt("BOOSTR_DAILY_LIMIT", 50),
				Timeout:    getEnvDuration("BOOSTR_TIMEOUT", 8*time.Second),
				Active:     getEnv("BOOSTR_ACTIVE", "true") == "true",
			},
			AutoAPI: SourceConfig{
				BaseURL:    getEnv("AUTOAPI_URL", "https://api.autoapi.cl"),
				APIKey:     os.Getenv("AUTOAPI_API_KEY"),
				DailyLimit: getEnvInt("AUTOAPI_DAILY_LIMIT", 100),
				Timeout:    getEnvDuration("AUTOAPI_TIMEOUT", 10*time.Second),
				Active:     getEnv("AUTOAPI_ACTIVE", "true") == "true",
			},
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
