package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer    string // Issuer claim for access tokens
	JWTSecret string // Required: HMAC secret for signing access tokens

	DatabaseFile string        // Optional: path to SQLite database file (default: ./shop.db)
	BaseURL      string        // Optional: frontend base URL embedded in invitation links
	InviteTTL    time.Duration // Optional: invitation validity window (default: 72h)

	BootstrapUsername string // Optional: seed superuser username (with password, on empty DB)
	BootstrapEmail    string // Optional: seed superuser email
	BootstrapPassword string // Optional: seed superuser password

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:    getEnvOrDefault("SHOP_ISSUER", "minishop"),
		JWTSecret: os.Getenv("SHOP_JWT_SECRET"),

		DatabaseFile: getEnvOrDefault("SHOP_DATABASE_FILE", "shop.db"),
		BaseURL:      getEnvOrDefault("SHOP_BASE_URL", "http://localhost:8080"),
		InviteTTL:    getEnvDurationOrDefault("SHOP_INVITE_TTL", 72*time.Hour),

		BootstrapUsername: os.Getenv("SHOP_BOOTSTRAP_USERNAME"),
		BootstrapEmail:    os.Getenv("SHOP_BOOTSTRAP_EMAIL"),
		BootstrapPassword: os.Getenv("SHOP_BOOTSTRAP_PASSWORD"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
