// Package logger provides leveled logging for the CLI. Log lines go to stderr
// so that tables and exports on stdout stay clean.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level represents a logging level
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "unknown"
	}
}

// Logger provides leveled logging
type Logger struct {
	level  Level
	logger *log.Logger
}

var defaultLogger *Logger

// ParseLevel maps a level name to a Level. Accepts debug, info, warn/warning
// and error, case-insensitive.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level: %s", s)
	}
}

// Init initializes the default logger writing to stderr. Unknown levels fall
// back to info.
func Init(level string) {
	InitWriter(level, os.Stderr)
}

// InitWriter is Init with an explicit destination.
func InitWriter(level string, w io.Writer) {
	l, _ := ParseLevel(level)
	defaultLogger = &Logger{
		level:  l,
		logger: log.New(w, "", log.LstdFlags),
	}
}

func output(l Level, tag, format string, args ...interface{}) {
	if defaultLogger == nil || defaultLogger.level > l {
		return
	}
	_ = defaultLogger.logger.Output(3, fmt.Sprintf("["+tag+"] "+format, args...))
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) { output(DebugLevel, "DEBUG", format, args...) }

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) { output(InfoLevel, "INFO", format, args...) }

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) { output(WarnLevel, "WARN", format, args...) }

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) { output(ErrorLevel, "ERROR", format, args...) }
