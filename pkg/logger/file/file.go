package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// FileLogger implements LoggerInstance using charmbracelet/log writing to a file.
// Output is plain text since the writer is not a terminal.
type FileLogger struct {
	logger *log.Logger
	file   *os.File
}

// FileLoggerParams contains configuration for creating a FileLogger.
type FileLoggerParams struct {
	Path  string
	Debug bool
}

// NewFileLogger creates a logger that appends to the file at Path, creating
// parent directories as needed.
func NewFileLogger(params FileLoggerParams) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(params.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(params.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := log.InfoLevel
	if params.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	return &FileLogger{
		logger: logger,
		file:   f,
	}, nil
}

// Close flushes and closes the underlying log file.
func (l *FileLogger) Close() error {
	return l.file.Close()
}

// Log writes a message at the default level.
func (l *FileLogger) Log(message string, keyvals ...any) {
	l.logger.Print(message, keyvals...)
}

// Info writes a message at INFO level.
func (l *FileLogger) Info(message string, keyvals ...any) {
	l.logger.Info(message, keyvals...)
}

// Warn writes a message at WARN level.
func (l *FileLogger) Warn(message string, keyvals ...any) {
	l.logger.Warn(message, keyvals...)
}

// Error writes a message at ERROR level.
func (l *FileLogger) Error(message string, keyvals ...any) {
	l.logger.Error(message, keyvals...)
}

// Debug writes a message at DEBUG level.
func (l *FileLogger) Debug(message string, keyvals ...any) {
	l.logger.Debug(message, keyvals...)
}

// Fatal writes a message at FATAL level and terminates the program.
func (l *FileLogger) Fatal(message string, keyvals ...any) {
	l.logger.Fatal(message, keyvals...)
}
