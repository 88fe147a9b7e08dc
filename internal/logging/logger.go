// internal/logging/logger.go
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LogLevel represents logging levels
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// ParseLevel maps a config string such as "debug" to a LogLevel
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Config holds logging configuration
type Config struct {
	Level LogLevel `json:"level"`

	// Directory for log files. Empty keeps all output on the console.
	Directory         string  `json:"directory"`
	AppLogFile        string  `json:"app_log_file"`
	ValidationLogFile string  `json:"validation_log_file"`
	EnableConsole     bool    `json:"enable_console"`
	ValidationSample  float64 `json:"validation_sample_rate"`
}

// DefaultConfig returns default logging configuration
func DefaultConfig() *Config {
	return &Config{
		Level:             LevelInfo,
		AppLogFile:        "app.log",
		ValidationLogFile: "validations.log",
		EnableConsole:     true,
		ValidationSample:  0.01, // 1%
	}
}

// Logger writes component-tagged application logs and sampled
// validation events.
type Logger struct {
	config           *Config
	appLogger        *slog.Logger
	validationLogger *slog.Logger

	sampleRNG   *rand.Rand
	sampleMutex sync.Mutex

	validationsLogged atomic.Int64
	failuresLogged    atomic.Int64

	appFile        *os.File
	validationFile *os.File
}

// New creates a logger from config
func New(config *Config) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	logger := &Logger{
		config:    config,
		sampleRNG: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if config.Directory != "" {
		if err := os.MkdirAll(config.Directory, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	if err := logger.setupAppLogger(); err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to setup app logger: %w", err)
	}

	if err := logger.setupValidationLogger(); err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to setup validation logger: %w", err)
	}

	return logger, nil
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	discard := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return &Logger{
		config:           &Config{Level: LevelError},
		appLogger:        discard,
		validationLogger: discard,
		sampleRNG:        rand.New(rand.NewSource(1)),
	}
}

// NewWithWriter creates a console-less logger writing both streams to w
func NewWithWriter(w io.Writer, level LogLevel) *Logger {
	l := &Logger{
		config:    &Config{Level: level, ValidationSample: 1},
		sampleRNG: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	opts := &slog.HandlerOptions{Level: l.getSlogLevel()}
	l.appLogger = slog.New(slog.NewJSONHandler(w, opts))
	l.validationLogger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return l
}

func (l *Logger) openFile(name string) (*os.File, error) {
	path := filepath.Join(l.config.Directory, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// setupAppLogger configures the application logger
func (l *Logger) setupAppLogger() error {
	writers := []io.Writer{}

	if l.config.Directory != "" {
		appFile, err := l.openFile(l.config.AppLogFile)
		if err != nil {
			return err
		}
		l.appFile = appFile
		writers = append(writers, appFile)
	}

	if l.config.EnableConsole || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	opts := &slog.HandlerOptions{
		Level: l.getSlogLevel(),
	}

	l.appLogger = slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	return nil
}

// setupValidationLogger configures the validation event logger. Without a
// directory the events share the application output.
func (l *Logger) setupValidationLogger() error {
	if l.config.Directory == "" {
		l.validationLogger = l.appLogger
		return nil
	}

	f, err := l.openFile(l.config.ValidationLogFile)
	if err != nil {
		return err
	}
	l.validationFile = f

	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug, // validation log accepts all levels
	}
	l.validationLogger = slog.New(slog.NewJSONHandler(f, opts))
	return nil
}

// getSlogLevel converts our LogLevel to slog.Level
func (l *Logger) getSlogLevel() slog.Level {
	switch l.config.Level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// shouldSample determines if a validation event should be logged
func (l *Logger) shouldSample() bool {
	if l.config.Level == LevelDebug {
		return true
	}

	l.sampleMutex.Lock()
	defer l.sampleMutex.Unlock()

	return l.sampleRNG.Float64() < l.config.ValidationSample
}

// Info logs an informational message
func (l *Logger) Info(component, message string, fields ...any) {
	l.appLogger.Info(message, append([]any{"component", component}, fields...)...)
}

// Warn logs a warning message
func (l *Logger) Warn(component, message string, fields ...any) {
	l.appLogger.Warn(message, append([]any{"component", component}, fields...)...)
}

// Error logs an error message
func (l *Logger) Error(component, message string, err error, fields ...any) {
	allFields := append([]any{"component", component}, fields...)
	if err != nil {
		allFields = append(allFields, "error", err.Error())
	}
	l.appLogger.Error(message, allFields...)
}

// Debug logs a debug message
func (l *Logger) Debug(component, message string, fields ...any) {
	l.appLogger.Debug(message, append([]any{"component", component}, fields...)...)
}

// LogValidation records the outcome of one validation call, sampled.
// Rejections are always logged.
func (l *Logger) LogValidation(recordType, name, outcome string, elapsed time.Duration) {
	rejected := outcome != "valid"
	if !rejected && !l.shouldSample() {
		return
	}

	l.validationLogger.Info("record_validation",
		"type", recordType,
		"name", name,
		"outcome", outcome,
		"elapsed_us", elapsed.Microseconds(),
	)

	l.validationsLogged.Add(1)
	if rejected {
		l.failuresLogged.Add(1)
	}
}

// GetStats returns logging statistics
func (l *Logger) GetStats() map[string]any {
	return map[string]any{
		"validations_logged": l.validationsLogged.Load(),
		"failures_logged":    l.failuresLogged.Load(),
		"sample_rate":        l.config.ValidationSample,
		"log_level":          string(l.config.Level),
	}
}

// Close closes all log files
func (l *Logger) Close() error {
	var lastErr error

	if l.appFile != nil {
		if err := l.appFile.Close(); err != nil {
			lastErr = err
		}
	}

	if l.validationFile != nil {
		if err := l.validationFile.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
