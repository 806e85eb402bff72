// Package log is a thin wrapper over log/slog that tags every record with
// the emitting component.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
)

// Setup builds the process-wide default logger. The level comes from
// LOG_LEVEL (debug|info|warn|error), defaulting to info.
func Setup() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	}))
	slog.SetDefault(logger)
	return logger
}

// For returns a logger tagged with the given component.
func For(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
