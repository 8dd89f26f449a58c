package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents the severity level for logging.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Logger provides leveled logging on top of slog.
type Logger interface {
	Debug(v ...any)
	Debugf(format string, a ...any)
	Info(v ...any)
	Infof(format string, a ...any)
	Warn(v ...any)
	Warnf(format string, a ...any)
	Error(v ...any)
	Errorf(format string, a ...any)
	With(args ...any) Logger
}

type slogLogger struct {
	logger   *slog.Logger
	logLevel LogLevel
}

// New creates a logger writing to stdout with the specified level.
// Accepts "debug", "dbg", "info", "inf", "warn", "wrn", "error", "err" (case-insensitive);
// anything else means info. Output is JSON when LOG_FORMAT=json, text otherwise.
func New(logLevelStr string) Logger {
	format := "text"
	if os.Getenv("LOG_FORMAT") == "json" {
		format = "json"
	}
	return NewWithWriter(os.Stdout, format, logLevelStr)
}

// NewWithWriter creates a logger writing to w in the given format ("json" or "text").
func NewWithWriter(w io.Writer, format, logLevelStr string) Logger {
	level := parseLevel(logLevelStr)
	opts := &slog.HandlerOptions{Level: toSlogLevel(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &slogLogger{
		logger:   slog.New(handler),
		logLevel: level,
	}
}

func (l *slogLogger) Debug(v ...any) {
	if l.logLevel <= DebugLevel {
		l.logger.Debug(fmt.Sprint(v...))
	}
}

func (l *slogLogger) Debugf(format string, a ...any) {
	if l.logLevel <= DebugLevel {
		l.logger.Debug(fmt.Sprintf(format, a...))
	}
}

func (l *slogLogger) Info(v ...any) {
	if l.logLevel <= InfoLevel {
		l.logger.Info(fmt.Sprint(v...))
	}
}

func (l *slogLogger) Infof(format string, a ...any) {
	if l.logLevel <= InfoLevel {
		l.logger.Info(fmt.Sprintf(format, a...))
	}
}

func (l *slogLogger) Warn(v ...any) {
	if l.logLevel <= WarnLevel {
		l.logger.Warn(fmt.Sprint(v...))
	}
}

func (l *slogLogger) Warnf(format string, a ...any) {
	if l.logLevel <= WarnLevel {
		l.logger.Warn(fmt.Sprintf(format, a...))
	}
}

func (l *slogLogger) Error(v ...any) {
	l.logger.Error(fmt.Sprint(v...))
}

func (l *slogLogger) Errorf(format string, a ...any) {
	l.logger.Error(fmt.Sprintf(format, a...))
}

// With returns a logger that adds args to every record and keeps the current level.
func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{
		logger:   l.logger.With(args...),
		logLevel: l.logLevel,
	}
}

type noopLogger struct{}

func (noopLogger) Debug(v ...any)                 {}
func (noopLogger) Debugf(format string, a ...any) {}
func (noopLogger) Info(v ...any)                  {}
func (noopLogger) Infof(format string, a ...any)  {}
func (noopLogger) Warn(v ...any)                  {}
func (noopLogger) Warnf(format string, a ...any)  {}
func (noopLogger) Error(v ...any)                 {}
func (noopLogger) Errorf(format string, a ...any) {}
func (noopLogger) With(args ...any) Logger        { return noopLogger{} }

// NewNoopLogger creates a logger that discards everything.
func NewNoopLogger() Logger {
	return noopLogger{}
}

func parseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "dbg":
		return DebugLevel
	case "warn", "wrn", "warning":
		return WarnLevel
	case "error", "err":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
