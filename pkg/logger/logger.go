// Package logger provides structured logging for frametrace hosts.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
)

// Logger provides structured logging interface.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a new logger with additional key-value pairs.
	With(keysAndValues ...any) Logger
}

// LogFilePermissions defines the file permissions for log files (owner read/write only).
const LogFilePermissions = 0o600

// SlogAdapter implements Logger on top of log/slog with a CustomHandler.
type SlogAdapter struct {
	logger  *slog.Logger
	handler *CustomHandler
}

// NewFileLogger creates a logger appending to the file at filePath.
// debugMode enables Info, traceMode enables Debug.
func NewFileLogger(filePath string, debugMode, traceMode bool) (*SlogAdapter, error) {
	handler, err := NewFileHandler(filePath, LevelFromFlags(debugMode, traceMode))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log file")
	}

	return newSlogAdapter(handler), nil
}

// NewFileLoggerWithWriter creates a logger writing to file instead of a path.
func NewFileLoggerWithWriter(file io.Writer, debugMode, traceMode bool) *SlogAdapter {
	return newSlogAdapter(NewWriterHandler(file, LevelFromFlags(debugMode, traceMode)))
}

// NewLevelLogger creates a logger writing to the file at filePath at the given level.
func NewLevelLogger(filePath string, level Level) (*SlogAdapter, error) {
	handler, err := NewFileHandler(filePath, level)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log file")
	}

	return newSlogAdapter(handler), nil
}

func newSlogAdapter(h *CustomHandler) *SlogAdapter {
	return &SlogAdapter{
		logger:  slog.New(h),
		handler: h,
	}
}

// Debug logs debug-level messages.
func (l *SlogAdapter) Debug(msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelDebug, msg, keysAndValues...)
}

// Info logs info-level messages.
func (l *SlogAdapter) Info(msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelInfo, msg, keysAndValues...)
}

// Error logs error-level messages.
func (l *SlogAdapter) Error(msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelError, msg, keysAndValues...)
}

// With returns a new logger with additional base key-value pairs.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (l *SlogAdapter) With(keysAndValues ...any) Logger {
	return &SlogAdapter{
		logger:  l.logger.With(keysAndValues...),
		handler: l.handler,
	}
}

// Close closes the underlying file, if any.
func (l *SlogAdapter) Close() error {
	return l.handler.Close()
}

// NoOpLogger is a logger that does nothing.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (*NoOpLogger) Debug(string, ...any) {}

// Info does nothing.
func (*NoOpLogger) Info(string, ...any) {}

// Error does nothing.
func (*NoOpLogger) Error(string, ...any) {}

// With returns the same NoOpLogger.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}

// stderrFallback is used when the log file cannot be opened.
func stderrFallback(level Level) *SlogAdapter {
	return newSlogAdapter(NewWriterHandler(os.Stderr, level))
}

// OpenOrStderr opens the log file at filePath, falling back to stderr.
// The returned error is non-nil when the fallback was used.
func OpenOrStderr(filePath string, level Level) (*SlogAdapter, error) {
	l, err := NewLevelLogger(filePath, level)
	if err != nil {
		return stderrFallback(level), err
	}

	return l, nil
}
