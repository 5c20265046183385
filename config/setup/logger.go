package setup

import (
	"io"
	"log/slog"
	"merquelo/config"
)

// NewLogger builds the process logger. Production writes JSON, everything
// else writes text with source locations in development.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     ParseLogLevel(cfg.LogLevel),
		AddSource: cfg.Env == "development",
	}

	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func ParseLogLevel(level string) slog.Level {
	switch level {
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
