package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger levels
const (
	DEBUG = iota
	INFO
	WARN
	ERROR
)

var (
	globalLogger *Logger
	once         sync.Once

	defaultLogDir  = ".formpilot/logs"
	defaultLogFile = "formpilot.log"
	maxLogSize     = int64(10 * 1024 * 1024) // 10MB
)

// Logger writes leveled messages to a rotating log file.
type Logger struct {
	mu          sync.Mutex
	file        *os.File
	logger      *log.Logger
	level       int
	logPath     string
	maxSize     int64
	currentSize int64
}

// Initialize sets up the global logger rooted at projectDir.
func Initialize(projectDir string) error {
	var initErr error
	once.Do(func() {
		globalLogger = &Logger{
			level:   INFO,
			maxSize: maxLogSize,
		}
		initErr = globalLogger.open(projectDir)
	})
	return initErr
}

// GetLogger returns the global logger instance.
func GetLogger() *Logger {
	if globalLogger == nil {
		Initialize(".")
	}
	return globalLogger
}

func (l *Logger) open(projectDir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logDir := filepath.Join(projectDir, defaultLogDir)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	l.logPath = filepath.Join(logDir, defaultLogFile)
	return l.openLogFile()
}

func (l *Logger) openLogFile() error {
	file, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	if info, err := file.Stat(); err == nil {
		l.currentSize = info.Size()
	}
	l.file = file
	l.logger = log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	return nil
}

// rotateIfNeeded renames the log file aside once it exceeds maxSize.
func (l *Logger) rotateIfNeeded() {
	if l.currentSize < l.maxSize {
		return
	}
	if l.file != nil {
		l.file.Close()
	}
	timestamp := time.Now().Format("20060102-150405")
	rotated := filepath.Join(filepath.Dir(l.logPath), fmt.Sprintf("formpilot-%s.log", timestamp))
	if err := os.Rename(l.logPath, rotated); err == nil {
		l.currentSize = 0
	}
	l.openLogFile()
}

func (l *Logger) write(level int, format string, v ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logger == nil {
		return
	}
	l.rotateIfNeeded()

	msg := fmt.Sprintf("[%s] %s", levelString(level), fmt.Sprintf(format, v...))
	l.logger.Output(3, msg)
	l.currentSize += int64(len(msg)) + 1
}

func levelString(level int) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SetLevel sets the logging level.
func (l *Logger) SetLevel(level int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close closes the logger.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Package-level convenience functions.

// Debug logs a debug message using the global logger.
func Debug(format string, v ...interface{}) {
	GetLogger().write(DEBUG, format, v...)
}

// Info logs an info message using the global logger.
func Info(format string, v ...interface{}) {
	GetLogger().write(INFO, format, v...)
}

// Warn logs a warning message using the global logger.
func Warn(format string, v ...interface{}) {
	GetLogger().write(WARN, format, v...)
}

// Error logs an error message using the global logger.
func Error(format string, v ...interface{}) {
	GetLogger().write(ERROR, format, v...)
}

// Writer returns an io.Writer that logs each write at INFO level.
func Writer() io.Writer {
	return &logWriter{}
}

type logWriter struct{}

func (w *logWriter) Write(p []byte) (n int, err error) {
	Info("%s", string(p))
	return len(p), nil
}

// RedirectStandardLog routes the standard log package into the file logger.
func RedirectStandardLog() {
	log.SetOutput(Writer())
	log.SetFlags(0)
}
