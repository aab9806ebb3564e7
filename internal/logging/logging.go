package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup builds the process-wide logger, tags it with the service name, and
// installs it as the slog default. Unrecognized level strings fall back to
// info so a typo in RATIOND_LOG_LEVEL never silences the server.
func Setup(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	logger := slog.New(handler).With("service", "rationd")
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
