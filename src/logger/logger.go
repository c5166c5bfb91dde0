package logger

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// L is the global logger. It defaults to slog's default logger so library
// code can log before InitLogger runs (tests, for instance).
var L = slog.Default()

// InitLogger initializes the global logger. Call once at startup, after the
// configuration is loaded.
func InitLogger(logLevelStr string) {
	var level slog.Level
	switch strings.ToLower(logLevelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		slog.Warn("Invalid LOG_LEVEL specified, defaulting to INFO", "configuredLevel", logLevelStr)
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}

	L = slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(L)
	L.Debug("Logger initialized", "level", level.String())
}
