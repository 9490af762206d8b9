package app

import (
	"os"
	"strconv"
	"time"

	"github.com/teamflowhq/teamflow/pkg/jwtx"
)

type Config struct {
	Issuer    string // Issuer claim for access tokens (default: teamflow)
	JWTSecret string // Required: HMAC secret for signing access tokens (min 32 bytes)

	AccessTokenTTL       time.Duration // Access token lifetime (default: 15m)
	DatabaseFile         string        // Path to SQLite database file (default: ./teamflow.db)
	PepperFile           string        // Path to file containing pepper for password hashing (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:               getEnvOrDefault("TEAMFLOW_ISSUER", "teamflow"),
		JWTSecret:            os.Getenv("TEAMFLOW_JWT_SECRET"),
		AccessTokenTTL:       getEnvDurationOrDefault("TEAMFLOW_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		DatabaseFile:         getEnvOrDefault("TEAMFLOW_DATABASE_FILE", "teamflow.db"),
		PepperFile:           getEnvOrDefault("TEAMFLOW_PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
