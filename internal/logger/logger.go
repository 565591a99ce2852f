package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config represents logger configuration.
type Config struct {
	Level   string // "debug", "info", "warn", "error"
	Format  string // "json", "text"
	Version string
	Dir     string // empty means stderr
}

// DevelopmentConfig returns development-friendly defaults.
func DevelopmentConfig() Config {
	return Config{
		Level:   "debug",
		Format:  "text",
		Version: "dev",
	}
}

// LogLevel converts the string level to slog.Level.
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
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

// IsJSON returns true if format is JSON.
func (c Config) IsJSON() bool {
	return strings.ToLower(c.Format) == "json"
}

// New builds a logger writing to w.
func New(c Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	var h slog.Handler
	if c.IsJSON() {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With(
		slog.String("service", "grid-bazaar"),
		slog.String("version", c.Version),
	)
}

// Setup installs the default logger. The terminal belongs to the UI while the
// game runs, so when Dir is set logs go to Dir/game.log instead of stderr.
// The returned closer must be called on shutdown.
func Setup(c Config) (func() error, error) {
	if c.Dir == "" {
		slog.SetDefault(New(c, os.Stderr))
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(c.Dir, "game.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(New(c, f))
	return f.Close, nil
}
