package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
)

const (
	TransportREST = "rest"
	TransportSDK  = "sdk"
)

// Environment variables consulted after the config file is loaded.
const (
	EnvAPIKey     = "GOOGLE_API_KEY"
	EnvModel      = "GEMINI_MODEL"
	EnvTransport  = "GEMINI_CHAT_TRANSPORT"
	EnvLogLevel   = "GEMINI_CHAT_LOG_LEVEL"
	EnvAPITimeout = "GEMINI_CHAT_API_TIMEOUT"
)

// ErrMissingAPIKey is returned by Validate when no credential is configured.
var ErrMissingAPIKey = errors.New("GOOGLE_API_KEY is not set")

// Config represents the application configuration
type Config struct {
	Google        GoogleConfig `json:"google"`
	MaxInputChars int          `json:"max_input_chars"`
	EnvFile       string       `json:"env_file"`
	LogLevel      string       `json:"log_level"`
	LogFormat     string       `json:"log_format"`
	LogFile       string       `json:"log_file"`
}

// GoogleConfig holds the Gemini endpoint configuration
type GoogleConfig struct {
	APIKey                string `json:"-"`
	Model                 string `json:"model"`
	BaseURL               string `json:"base_url"`
	APIVersion            string `json:"api_version"`
	Transport             string `json:"transport"`
	APITimeoutSeconds     int    `json:"api_timeout_seconds"`
	MaxRetries            int    `json:"max_retries"`
	RateLimitDelaySeconds int    `json:"rate_limit_delay_seconds"`
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		Google: GoogleConfig{
			Model:                 "gemini-2.0-flash",
			BaseURL:               "https://generativelanguage.googleapis.com",
			APIVersion:            "v1beta",
			Transport:             TransportREST,
			APITimeoutSeconds:     30,
			MaxRetries:            3,
			RateLimitDelaySeconds: 1,
		},
		MaxInputChars: 30720,
		EnvFile:       ".env",
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// Load loads configuration from the specified path and applies environment
// overrides. If the file doesn't exist, creates one with default values.
//
// The file is optional: when it cannot be created, read or parsed, Load
// returns the defaults with environment overrides applied together with the
// error, so callers may warn and carry on.
func Load(configPath string) (Config, error) {
	cfg := Default()

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return ApplyEnv(cfg), fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		if err := Save(configPath, cfg); err != nil {
			return ApplyEnv(cfg), fmt.Errorf("failed to create default config: %w", err)
		}
	case err != nil:
		return ApplyEnv(cfg), fmt.Errorf("failed to read config: %w", err)
	default:
		// Unmarshal over the defaults so absent keys keep their default value.
		if err := json.Unmarshal(data, &cfg); err != nil {
			return ApplyEnv(Default()), fmt.Errorf("failed to parse config: %w", err)
		}
	}

	return ApplyEnv(cfg), nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set are left alone. A missing file is not an error.
func LoadEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv returns cfg with environment variable overrides applied.
func ApplyEnv(cfg Config) Config {
	if apiKey := strings.TrimSpace(os.Getenv(EnvAPIKey)); apiKey != "" {
		cfg.Google.APIKey = apiKey
	}

	if model := strings.TrimSpace(os.Getenv(EnvModel)); model != "" {
		slog.Debug("config_env_override", "var", EnvModel, "value", model)
		cfg.Google.Model = model
	}

	if transport := strings.ToLower(strings.TrimSpace(os.Getenv(EnvTransport))); transport != "" {
		slog.Debug("config_env_override", "var", EnvTransport, "value", transport)
		cfg.Google.Transport = transport
	}

	if level := strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel))); level != "" {
		switch level {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = level
		}
	}

	if timeoutStr := os.Getenv(EnvAPITimeout); timeoutStr != "" {
		if timeout, err := strconv.Atoi(timeoutStr); err == nil && timeout > 0 {
			cfg.Google.APITimeoutSeconds = timeout
		}
	}

	return cfg
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if strings.TrimSpace(c.Google.APIKey) == "" {
		return fmt.Errorf("%w: set it in the environment or in %s", ErrMissingAPIKey, c.envFileName())
	}

	if strings.TrimSpace(c.Google.Model) == "" {
		return fmt.Errorf("google.model is required")
	}

	if strings.TrimSpace(c.Google.BaseURL) == "" {
		return fmt.Errorf("google.base_url is required")
	}

	switch c.Google.Transport {
	case TransportREST, TransportSDK:
	default:
		return fmt.Errorf("unsupported transport: %q (want %q or %q)", c.Google.Transport, TransportREST, TransportSDK)
	}

	if c.Google.APITimeoutSeconds <= 0 {
		return fmt.Errorf("api_timeout_seconds must be positive, got: %d", c.Google.APITimeoutSeconds)
	}

	if c.Google.MaxRetries <= 0 {
		return fmt.Errorf("max_retries must be positive, got: %d", c.Google.MaxRetries)
	}

	if c.Google.RateLimitDelaySeconds < 0 {
		return fmt.Errorf("rate_limit_delay_seconds must not be negative, got: %d", c.Google.RateLimitDelaySeconds)
	}

	if c.MaxInputChars <= 0 {
		return fmt.Errorf("max_input_chars must be positive, got: %d", c.MaxInputChars)
	}

	return nil
}

// APITimeout returns the per-attempt request timeout.
func (c Config) APITimeout() time.Duration {
	return time.Duration(c.Google.APITimeoutSeconds) * time.Second
}

// RateLimitDelay returns the base retry delay.
func (c Config) RateLimitDelay() time.Duration {
	return time.Duration(c.Google.RateLimitDelaySeconds) * time.Second
}

func (c Config) envFileName() string {
	if name := strings.TrimSpace(c.EnvFile); name != "" {
		return name
	}
	return "a .env file"
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gemini_chat/config.json"
	}
	return filepath.Join(homeDir, ".gemini_chat", "config.json")
}
