package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sharedrop/sharedrop/pkg/jwtx"
)

type Config struct {
	JWTSecret string // Required: HMAC secret shared with the auth service
	Issuer    string // Expected issuer claim on verified tokens

	AuthServiceURL  string // Upstream auth service base URL (default: http://localhost:8080)
	FilesServiceURL string // Upstream file service base URL (default: http://localhost:8082)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8081)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		JWTSecret:           os.Getenv("AUTH_JWT_SECRET"),
		Issuer:              getEnvOrDefault("AUTH_ISSUER", "sharedrop-auth"),
		AuthServiceURL:      getEnvOrDefault("AUTH_SERVICE_URL", "http://localhost:8080"),
		FilesServiceURL:     getEnvOrDefault("FILES_SERVICE_URL", "http://localhost:8082"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8081),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate rejects configurations the gateway must not start with.
func (cfg Config) Validate() error {
	if cfg.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < jwtx.MinSecretBytes {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least %d bytes", jwtx.MinSecretBytes)
	}
	for name, raw := range map[string]string{
		"AUTH_SERVICE_URL":  cfg.AuthServiceURL,
		"FILES_SERVICE_URL": cfg.FilesServiceURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s is not a valid URL: %q", name, raw)
		}
	}
	return nil
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

	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
