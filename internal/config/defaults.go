package config

import "time"

// Default configuration values
const (
	// External transcription service
	DefaultServiceURL = "http://127.0.0.1:5000"
	DefaultTimeout    = 120 * time.Second
	MaxTimeout        = 30 * time.Minute

	// Web UI
	DefaultHost = "127.0.0.1"
	DefaultPort = "8080"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Environment variables read by ApplyEnv
const (
	EnvServiceURL  = "WHISPER_SERVICE_URL"
	EnvTimeout     = "WHISPER_TIMEOUT"
	EnvHost        = "WHISPER_UI_HOST"
	EnvPort        = "WHISPER_UI_PORT"
	EnvUploadDir   = "WHISPER_UI_UPLOAD_DIR"
	EnvEnvironment = "APP_ENV"
)
