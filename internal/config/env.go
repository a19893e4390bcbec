package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from the first .env file found.
// Variables already set in the process environment win.
func LoadEnv() (string, error) {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}

	return "", nil
}

// ApplyEnv overrides cfg with any configured environment variables
func ApplyEnv(cfg *Config) error {
	cfg.ServiceURL = getEnvOrDefault(EnvServiceURL, cfg.ServiceURL)
	cfg.Host = getEnvOrDefault(EnvHost, cfg.Host)
	cfg.Port = getEnvOrDefault(EnvPort, cfg.Port)
	cfg.UploadDir = getEnvOrDefault(EnvUploadDir, cfg.UploadDir)
	cfg.Environment = getEnvOrDefault(EnvEnvironment, cfg.Environment)

	if raw := strings.TrimSpace(os.Getenv(EnvTimeout)); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = timeout
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
