// Package logging sets up the chat client's structured log file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gemini_chat/pkg/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogFile = "gemini_chat.log"

	maxLogSizeMB  = 5
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// Attribute keys with special handling.
const (
	KeySessionID = "session_id"
	KeyAPIKey    = "api_key"
)

// Init makes a rotating-file logger for one chat session and installs it as
// the slog default. Stdout belongs to the conversation, so when the log
// directory cannot be created records are discarded and the error returned.
//
// Any attribute named api_key is masked before it is written.
func Init(cfg config.Config, sessionID string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{
		Level:       parseLogLevel(cfg.LogLevel),
		ReplaceAttr: maskSecrets,
	}

	logPath := strings.TrimSpace(cfg.LogFile)
	if logPath == "" {
		logPath = defaultLogPath()
	}

	var (
		out     io.Writer = io.Discard
		initErr error
	)
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		initErr = err
	} else {
		out = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
			Compress:   true,
		}
	}

	logger := slog.New(newHandler(cfg.LogFormat, out, opts))
	if sessionID != "" {
		logger = logger.With(KeySessionID, sessionID)
	}
	slog.SetDefault(logger)
	return logger, initErr
}

// MaskKey keeps the first and last four characters of a credential.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func maskSecrets(_ []string, a slog.Attr) slog.Attr {
	if a.Key == KeyAPIKey && a.Value.Kind() == slog.KindString {
		return slog.String(KeyAPIKey, MaskKey(a.Value.String()))
	}
	return a
}

func defaultLogPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(homeDir) == "" {
		return filepath.Join(".gemini_chat", "logs", defaultLogFile)
	}
	return filepath.Join(homeDir, ".gemini_chat", "logs", defaultLogFile)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}
