package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/worldcup26/hospitality/internal/pkg/config"
)

// Setup configures the global logger for the given service.
func Setup(cfg *config.LoggingConfig, serviceName string) *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		level = parseLevel(cfg.Level)
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler).With("service", serviceName)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
