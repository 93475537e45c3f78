// Package logging builds the slog loggers used across causalml.
// Library packages take a *slog.Logger where they have something to
// say; this package only decides how those loggers are configured.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the handler for New.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level slog.Level
	// JSON switches from the text handler to the JSON handler.
	JSON bool
	// Service is attached to every line as the service attribute.
	Service string
	// Writer receives the log lines. Nil means stderr, which keeps
	// stdout free for data and results.
	Writer io.Writer
}

// New builds a logger from the config.
func New(cfg Config) *slog.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	log := slog.New(h)
	if cfg.Service != "" {
		log = log.With("service", cfg.Service)
	}
	return log
}

// ParseLevel maps a level name to its slog value.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("logging: unknown level %q", s)
}
