// Package logging provides the leveled logger used throughout sifread. Messages
// are written through the standard library's log package, prefixed by their level.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
	// FatalLevel indicates a log message's level of criticality
	FatalLevel
)

// LogLevelToString translates a log level enum to a string representation
func LogLevelToString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "TRACE"
	}
}

// LogLevelFromString translates a string representation of a log level into its enum.
// Unknown levels map to InfoLevel.
func LogLevelFromString(level string) int {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return TraceLevel
	case "DEBUG":
		return DebugLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "FATAL":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// Logger writes messages at or above a minimum level
type Logger struct {
	level  int
	logger *log.Logger
}

// New creates a Logger which writes to w, discarding messages below level
func New(w io.Writer, source string, level int) *Logger {
	prefix := ""
	if len(source) > 0 {
		prefix = source + ": "
	}
	return &Logger{level: level, logger: log.New(w, prefix, log.LstdFlags)}
}

// Default creates a Logger which writes INFO and above to stderr
func Default() *Logger {
	return New(os.Stderr, "sifread", InfoLevel)
}

// Discard creates a Logger which drops every message
func Discard() *Logger {
	return New(io.Discard, "", FatalLevel+1)
}

// Enabled returns true iff messages at the given level would be written
func (l *Logger) Enabled(level int) bool {
	return l != nil && level >= l.level
}

// Logf writes a formatted message at the given level
func (l *Logger) Logf(level int, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	l.logger.Printf("[%s] %s", LogLevelToString(level), fmt.Sprintf(format, args...))
}

// Debugf writes a formatted message at DebugLevel
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Logf(DebugLevel, format, args...)
}

// Infof writes a formatted message at InfoLevel
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Logf(InfoLevel, format, args...)
}

// Warnf writes a formatted message at WarnLevel
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Logf(WarnLevel, format, args...)
}

// Errorf writes a formatted message at ErrorLevel
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Logf(ErrorLevel, format, args...)
}
