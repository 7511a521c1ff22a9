package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultTRMURL = "https://www.datos.gov.co/resource/32sa-8pi3.json?$order=vigenciadesde%20DESC&$limit=1"

type Config struct {
	DatabaseURI     string
	HTTPAddr        string
	TRMURL          string
	TRMFetchTimeout time.Duration
	TRMCacheTTL     time.Duration
	LogLevel        string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	return &Config{
		DatabaseURI:     os.Getenv("DATABASE_URI"),
		HTTPAddr:        getEnvOrDefault("HTTP_ADDR", ":8080"),
		TRMURL:          getEnvOrDefault("TRM_URL", defaultTRMURL),
		TRMFetchTimeout: getDurationOrDefault("TRM_FETCH_TIMEOUT", 5*time.Second),
		TRMCacheTTL:     getDurationOrDefault("TRM_CACHE_TTL", time.Hour),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
