package confs

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds process-wide settings resolved from the environment.
type Config struct {
	Env            string
	Port           string
	JWTSecret      string
	JWTExpire      time.Duration
	AllowedOrigins string
}

// Load reads a .env file if present and resolves the service configuration.
func Load() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("could not load .env")
		}
	}

	cfg := &Config{
		Env:            GetEnvAsString("APP_ENV", "development"),
		Port:           GetEnvAsString("PORT", "5000"),
		JWTSecret:      GetEnvAsString("JWT_SECRET", ""),
		JWTExpire:      GetEnvAsDuration("JWT_EXPIRE", 30*24*time.Hour),
		AllowedOrigins: GetEnvAsString("ALLOWED_ORIGINS", ""),
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, using insecure development secret")
		cfg.JWTSecret = "dev-secret"
	}
	return cfg, nil
}

// GetEnvAsString gets environment variable as string with default value
func GetEnvAsString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets environment variable as int with default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvAsDuration gets environment variable as duration with default value
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
