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
	// Server configuration
	Port   string
	AppEnv string // development, production

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Session configuration
	JWTSecret  string
	SessionTTL time.Duration

	// Reminder cron shared secret; empty disables the endpoint outside
	// production.
	CronSecret string

	// SMTP configuration; empty host disables outgoing mail.
	SMTPHost   string
	SMTPPort   string
	SMTPUser   string
	SMTPPass   string
	SMTPFrom   string
	SMTPSecure bool

	// Object storage configuration; empty endpoint disables uploads.
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3UseSSL        bool
	S3PublicBaseURL string

	// Rate limiting
	RateLimitEnabled bool
}

// Load loads configuration from the environment, reading .env first when
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		AppEnv:            getEnv("APP_ENV", "development"),
		DBType:            getEnv("DB_TYPE", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBDatabase:        getEnv("DB_DATABASE", ""),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 10),
		JWTSecret:         getEnv("SESSION_JWT_SECRET", ""),
		SessionTTL:        time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 72)) * time.Hour,
		CronSecret:        getEnv("CRON_SECRET", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnv("SMTP_PORT", "587"),
		SMTPUser:          getEnv("SMTP_USER", ""),
		SMTPPass:          getEnv("SMTP_PASS", ""),
		SMTPFrom:          getEnv("SMTP_FROM", ""),
		SMTPSecure:        getEnv("SMTP_SECURE", "false") == "true",
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3AccessKey:       getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:       getEnv("S3_SECRET_KEY", ""),
		S3Bucket:          getEnv("S3_BUCKET", "forma"),
		S3UseSSL:          getEnv("S3_USE_SSL", "true") == "true",
		S3PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
	}

	// Rate limiting is on in production unless explicitly disabled, and
	// off in development unless explicitly enforced.
	disabled := getEnv("RATE_LIMIT_DISABLED", "false") == "true"
	enforceDev := getEnv("RATE_LIMIT_ENFORCE_DEV", "false") == "true"
	cfg.RateLimitEnabled = !disabled && (cfg.AppEnv == "production" || enforceDev)

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBType != "sqlite" && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("SESSION_JWT_SECRET is required")
	}
	if cfg.AppEnv == "production" && cfg.CronSecret == "" {
		return nil, fmt.Errorf("CRON_SECRET is required in production")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
