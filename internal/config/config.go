package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"whisper-transcription/internal/app/api/whisper_server"
)

// Config is the runtime configuration of the web UI and CLI
type Config struct {
	ServiceURL  string        `yaml:"service_url" validate:"required,http_url"`
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
	Host        string        `yaml:"host"`
	Port        string        `yaml:"port" validate:"required,numeric"`
	UploadDir   string        `yaml:"upload_dir"`
	Environment string        `yaml:"environment" validate:"oneof=development production"`

	Headers map[string]string `yaml:"headers"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ServiceURL:  DefaultServiceURL,
		Timeout:     DefaultTimeout,
		Host:        DefaultHost,
		Port:        DefaultPort,
		UploadDir:   filepath.Join(os.TempDir(), "whisper-ui"),
		Environment: EnvDevelopment,
	}
}

// LoadFile merges a YAML configuration file into cfg
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Resolve loads the configuration, applies command-line overrides and validates it
func Resolve(path, serviceURL string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if serviceURL != "" {
		cfg.ServiceURL = serviceURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr returns host:port for the web UI listener
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsProduction reports whether the production environment is configured
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// ClientConfig returns the transcription service client configuration
func (c *Config) ClientConfig() whisper_server.Config {
	return whisper_server.Config{
		BaseURL:       c.ServiceURL,
		Timeout:       c.Timeout,
		CustomHeaders: c.Headers,
	}
}
