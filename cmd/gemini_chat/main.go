package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gemini_chat/pkg/ai"
	"gemini_chat/pkg/config"
	"gemini_chat/pkg/logging"
	"gemini_chat/pkg/session"
	"gemini_chat/pkg/ui"
	"gemini_chat/pkg/version"

	"github.com/google/uuid"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	logger, err := logging.Init(cfg, uuid.NewString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	logger.Info("startup",
		"version", version.Banner(),
		"model", cfg.Google.Model,
		"transport", cfg.Google.Transport,
		logging.KeyAPIKey, cfg.Google.APIKey,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := newBackend(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	client := ai.NewClient(backend, ai.ClientOptions{
		Model:          cfg.Google.Model,
		MaxRetries:     cfg.Google.MaxRetries,
		RateLimitDelay: cfg.RateLimitDelay(),
		Logger:         logger,
	})

	console := ui.NewConsole(os.Stdout, ui.WithLogger(logger))
	reader := session.NewLinerReader()
	defer reader.Close()

	sess := session.New(reader, console, client, session.Options{
		MaxInputChars: cfg.MaxInputChars,
		Logger:        logger,
	})
	console.Welcome(ui.WelcomeMessage(cfg.Google.Model, version.Summary(), sess.Dispatcher().Handlers()))

	if err := sess.Run(ctx); err != nil {
		logger.Error("session_failed", "error", err)
	}
	return 0
}

// loadConfig reads the config file, then the env file it names, and
// validates the result. Problems with either file are reported to warn and
// the defaults are used; only a missing API key is fatal.
func loadConfig(warn io.Writer) (config.Config, error) {
	cfg, err := config.Load(config.GetConfigPath())
	if err != nil {
		fmt.Fprintf(warn, "Warning: using default configuration: %v\n", err)
	}
	if err := config.LoadEnvFile(cfg.EnvFile); err != nil {
		fmt.Fprintf(warn, "Warning: %v\n", err)
	}
	cfg = config.ApplyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			return config.Config{}, fmt.Errorf("please set GOOGLE_API_KEY in your environment or .env file: %w", err)
		}
		fmt.Fprintf(warn, "Warning: invalid configuration, using defaults: %v\n", err)
		cfg = config.ApplyEnv(config.Default())
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func newBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (ai.Backend, error) {
	switch cfg.Google.Transport {
	case config.TransportSDK:
		return ai.NewSDKBackend(ctx, ai.SDKOptions{
			APIKey:     cfg.Google.APIKey,
			BaseURL:    cfg.Google.BaseURL,
			APIVersion: cfg.Google.APIVersion,
			Timeout:    cfg.APITimeout(),
			Logger:     logger,
		})
	default:
		rest := ai.NewRESTBackend(cfg.Google.APIKey, cfg.APITimeout())
		rest.BaseURL = cfg.Google.BaseURL
		rest.APIVersion = cfg.Google.APIVersion
		rest.Logger = logger
		return rest, nil
	}
}
