package file

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// FileLogger implements LoggerInstance by appending logfmt records to a file.
// It is meant for interactive programs whose terminal is busy with prompts.
type FileLogger struct {
	file   *os.File
	logger *log.Logger
}

// FileLoggerParams contains configuration for creating a FileLogger.
type FileLoggerParams struct {
	Path  string
	Debug bool
}

// NewFileLogger opens (or creates) the log file at params.Path for appending.
// Parent directories are created as needed.
func NewFileLogger(params FileLoggerParams) (*FileLogger, error) {
	if dir := filepath.Dir(params.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(params.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	level := log.InfoLevel
	if params.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Formatter:       log.LogfmtFormatter,
	})

	return &FileLogger{file: f, logger: logger}, nil
}

// Close flushes and closes the underlying file.
func (l *FileLogger) Close() error {
	return l.file.Close()
}

func (l *FileLogger) Log(message string, keyvals ...any) {
	l.logger.Print(message, keyvals...)
}

func (l *FileLogger) Info(message string, keyvals ...any) {
	l.logger.Info(message, keyvals...)
}

func (l *FileLogger) Warn(message string, keyvals ...any) {
	l.logger.Warn(message, keyvals...)
}

func (l *FileLogger) Error(message string, keyvals ...any) {
	l.logger.Error(message, keyvals...)
}

func (l *FileLogger) Debug(message string, keyvals ...any) {
	l.logger.Debug(message, keyvals...)
}

// Fatal writes the record, closes the file and exits.
func (l *FileLogger) Fatal(message string, keyvals ...any) {
	l.logger.Error(message, keyvals...)
	_ = l.file.Close()
	os.Exit(1)
}
