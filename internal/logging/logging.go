// Package logging provides structured logging for oscana.
//
// It wraps log/slog with a process-wide logger, component loggers and
// context-carried attributes. Text output is the default; JSON is meant for
// batch jobs whose logs are collected.
//
//	logging.Init(slog.LevelInfo, false)
//	log := logging.Component("handler")
//	log.Warn("transform failed", "transform", name, "error", err)
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the global logger instance.
var Logger *slog.Logger

// Init initializes the global logger on stderr. Stdout is left to command
// output.
func Init(level slog.Level, jsonFormat bool) {
	InitWriter(os.Stderr, level, jsonFormat)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level slog.Level, jsonFormat bool) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	if jsonFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

func global() *slog.Logger {
	if Logger == nil {
		Init(slog.LevelInfo, false)
	}
	return Logger
}

// Component returns a logger tagged with the component name.
//
//	log := logging.Component("query")
//	log.Info("opened") // time=... level=INFO component=query msg=opened
func Component(name string) *slog.Logger {
	return global().With("component", name)
}

type contextKey int

const (
	contextKeyHandlerID contextKey = iota
	contextKeyFile
)

// ContextWithHandlerID attaches a data handler ID to ctx.
func ContextWithHandlerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyHandlerID, id)
}

// ContextWithFile attaches the file being ingested to ctx.
func ContextWithFile(ctx context.Context, file string) context.Context {
	return context.WithValue(ctx, contextKeyFile, file)
}

// FromContext returns base extended with the attributes carried by ctx. A nil
// base means the global logger.
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = global()
	}
	if id, ok := ctx.Value(contextKeyHandlerID).(string); ok {
		base = base.With("handler_id", id)
	}
	if file, ok := ctx.Value(contextKeyFile).(string); ok {
		base = base.With("file", file)
	}
	return base
}

// ParseLevel maps a config string to a slog level. Unknown values map to info.
func ParseLevel(s string) slog.Level {
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

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
