// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrInvalidPort is returned when PORT is not a usable TCP port.
	ErrInvalidPort = errors.New("config: PORT must be between 1 and 65535")
	// ErrInvalidSampleRate is returned when TARGET_SAMPLE_RATE is not positive.
	ErrInvalidSampleRate = errors.New("config: TARGET_SAMPLE_RATE must be positive")
	// ErrInvalidMaxDuration is returned when MAX_DURATION_SEC is not positive.
	ErrInvalidMaxDuration = errors.New("config: MAX_DURATION_SEC must be positive")
	// ErrInvalidMaxUpload is returned when MAX_UPLOAD_BYTES is not positive.
	ErrInvalidMaxUpload = errors.New("config: MAX_UPLOAD_BYTES must be positive")
)

// Config holds all configuration for the application.
// Every field has a default; the service starts with no environment set.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// Upload settings
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES, default=10485760" json:"max_upload_bytes"`

	// Audio settings
	TargetSampleRate int     `env:"TARGET_SAMPLE_RATE, default=22050" json:"target_sample_rate"`
	MaxDurationSec   float64 `env:"MAX_DURATION_SEC, default=30" json:"max_duration_sec"`
	FFmpegPath       string  `env:"FFMPEG_PATH" json:"ffmpeg_path,omitempty"` // empty = resolve from PATH

	// Storage settings
	TempDir string `env:"TEMP_DIR, default=/tmp/emotion-analysis" json:"temp_dir"`

	// Chart settings
	ChartWaveform bool `env:"CHART_WAVEFORM, default=false" json:"chart_waveform"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the numeric settings are usable.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.TargetSampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	if c.MaxDurationSec <= 0 {
		return ErrInvalidMaxDuration
	}
	if c.MaxUploadBytes <= 0 {
		return ErrInvalidMaxUpload
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, MaxUploadBytes: %d, TargetSampleRate: %d, MaxDurationSec: %g, TempDir: %s, ChartWaveform: %t, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.MaxUploadBytes,
		c.TargetSampleRate,
		c.MaxDurationSec,
		c.TempDir,
		c.ChartWaveform,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
