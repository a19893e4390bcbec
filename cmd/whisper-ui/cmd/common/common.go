package common

import (
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"whisper-transcription/internal/app/logging"
	"whisper-transcription/internal/config"
)

// Options holds the persistent flags shared by every subcommand
type Options struct {
	ServiceURL string
	ConfigPath string
	Verbose    bool
}

// Opts is filled in by cobra before any subcommand runs
var Opts Options

// BindFlags registers the persistent flags
func BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&Opts.ServiceURL, "service-url", "", "transcription service base URL (default "+config.DefaultServiceURL+")")
	flags.StringVarP(&Opts.ConfigPath, "config", "c", "", "YAML config file")
	flags.BoolVarP(&Opts.Verbose, "verbose", "V", false, "verbose output")
}

// LoadConfig resolves the configuration from file, environment and flags
func LoadConfig() (*config.Config, error) {
	return config.Resolve(Opts.ConfigPath, Opts.ServiceURL)
}

// Logger returns a development logger with --verbose and a no-op logger otherwise
func Logger() *zap.Logger {
	if !Opts.Verbose {
		return zap.NewNop()
	}
	logger, err := logging.NewLogger(true)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
