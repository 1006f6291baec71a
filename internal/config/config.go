// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/storelane/merchant/pkg/db"
)

// Module provides the loaded configuration.
var Module = fx.Provide(Load)

// Config holds application configuration.
type Config struct {
	AppName     string
	Environment string

	// InvoiceCacheTTL bounds how long a materialized invoice aggregate may
	// be served from the read-through cache.
	InvoiceCacheTTL time.Duration

	DB db.Config
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:         getenv("APP_NAME", "merchant"),
		Environment:     getenv("APP_ENV", "development"),
		InvoiceCacheTTL: getenvDuration("INVOICE_CACHE_TTL", 5*time.Minute),
		DB: db.Config{
			Type:            getenv("DB_TYPE", "postgres"),
			Host:            getenv("DB_HOST", "localhost"),
			Port:            getenv("DB_PORT", "5432"),
			Name:            getenv("DB_NAME", "merchant"),
			User:            getenv("DB_USER", "merchant"),
			Password:        getenv("DB_PASSWORD", ""),
			SSLMode:         getenv("DB_SSLMODE", "disable"),
			MaxIdleConn:     int(getenvInt64("DB_MAX_IDLE_CONN", 10)),
			MaxOpenConn:     int(getenvInt64("DB_MAX_OPEN_CONN", 50)),
			ConnMaxLifetime: getenvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: getenvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
			MetricsEnabled:  getenvBool("DB_METRICS_ENABLED", false),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
