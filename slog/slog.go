// Package slog provides structured logging for the log-search services.
// It is a thin wrapper over Go's [log/slog] with environment-based
// configuration and a context-carried logger.
package slog

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
)

type (
	// Handler handles log records produced by a Logger.
	Handler = slog.Handler

	// Level determines the importance or severity of a log record.
	Level = slog.Level

	// Logger represents a logger instance with its own context.
	// It extends Go's slog.Logger by adding new methods, like [Logger.Fatal].
	Logger struct {
		*slog.Logger
	}

	// Format determines the output format of the log records.
	Format string

	// Config represents log configuration.
	Config struct {
		Level  Level
		Format Format
	}
)

// All available log levels.
const (
	LevelInfo    Level = slog.LevelInfo
	LevelDebug   Level = slog.LevelDebug
	LevelWarn    Level = slog.LevelWarn
	LevelError   Level = slog.LevelError
	LevelDisable Level = math.MaxInt
)

// All available log formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Default configurations.
const (
	DefaultLevel  = LevelInfo
	DefaultFormat = FormatJSON
)

// LoadConfig loads the log [Config] of a service from environment variables.
// The service name is used as a prefix, so service "LOGSEARCH" loads the
// level from "LOGSEARCH_LOG_LEVEL" and the format from "LOGSEARCH_LOG_FMT".
// Missing variables fall back to defaults (info, json).
func LoadConfig(service string) (Config, error) {
	level, err := ParseLevel(os.Getenv(service + "_LOG_LEVEL"))
	if err != nil {
		return Config{}, err
	}
	format, err := ParseFormat(os.Getenv(service + "_LOG_FMT"))
	if err != nil {
		return Config{}, err
	}
	return Config{Level: level, Format: format}, nil
}

// Configure will change the default logger configuration.
// It should be called as soon as possible, usually on the main of your program.
func Configure(cfg Config) error {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	switch cfg.Format {
	case FormatText:
		handler = slog.NewTextHandler(os.Stderr, opts)
	case FormatJSON:
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("unknown log format: %v", cfg.Format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// New creates a new Logger with the given non-nil Handler.
func New(h Handler) *Logger {
	return &Logger{slog.New(h)}
}

// Default creates a new [Logger] with default configurations.
func Default() *Logger {
	return &Logger{slog.Default()}
}

// Fatal is equivalent to [Logger.Error] followed by a call to os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Error(msg, args...)
	os.Exit(1)
}

// With calls Logger.With on the wrapped logger returning a new Logger instance.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

// Info calls Logger.Info on the default logger.
func Info(msg string, args ...any) {
	slog.Info(msg, args...)
}

// Debug calls Logger.Debug on the default logger.
func Debug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

// Warn calls Logger.Warn on the default logger.
func Warn(msg string, args ...any) {
	slog.Warn(msg, args...)
}

// Error calls Logger.Error on the default logger.
func Error(msg string, args ...any) {
	slog.Error(msg, args...)
}

// Fatal is equivalent to Error() followed by a call to os.Exit(1).
func Fatal(msg string, args ...any) {
	Error(msg, args...)
	os.Exit(1)
}

// With calls Logger.With on the default logger returning a new Logger instance.
func With(args ...any) *Logger {
	return &Logger{slog.With(args...)}
}

// FromCtx gets the [Logger] associated with the given context. A default
// [Logger] is returned if the context has no [Logger] associated with it.
func FromCtx(ctx context.Context) *Logger {
	log, ok := ctx.Value(loggerKey).(*Logger)
	if !ok {
		return Default()
	}
	return log
}

// NewContext creates a new [context.Context] with the given [Logger]
// associated with it. Call [FromCtx] to retrieve the [Logger].
func NewContext(ctx context.Context, log *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// key is the type used to store data on contexts.
type key int

const (
	loggerKey key = iota
)

// ParseLevel parses the string and returns the corresponding [Level].
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "info", "":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "disable":
		return LevelDisable, nil
	default:
		return Level(666), fmt.Errorf("invalid log level: %q", level)
	}
}

// ParseFormat parses the string and returns the corresponding [Format].
func ParseFormat(format string) (Format, error) {
	switch format {
	case "text", "json":
		return Format(format), nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown log format %q", format)
	}
}
