package logging

import (
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Level represents the severity level of a log message
type Level int

const (
	// Debug level for detailed troubleshooting information
	Debug Level = iota
	// Info level for general operational information
	Info
	// Warn level for non-critical issues
	Warn
	// Error level for errors that should be investigated
	Error
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", l)
	}
}

// ParseLevel converts a level name from configuration into a Level.
// Unknown names fall back to Info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new log field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// sanitizeMessage normalizes a log message to a single line and removes
// control characters that can be used for log injection.
func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")

	var b strings.Builder
	for _, r := range msg {
		if r == '\t' || !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

var sensitiveFieldKeys = []string{
	"password",
	"pass",
	"token",
	"secret",
}

// sanitizeFields returns a sanitized copy of the provided fields with
// sensitive values redacted and string values normalized.
func sanitizeFields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}

	sanitized := make([]Field, len(fields))
	copy(sanitized, fields)

	for i, f := range sanitized {
		keyLower := strings.ToLower(f.Key)
		for _, sk := range sensitiveFieldKeys {
			if strings.Contains(keyLower, sk) {
				sanitized[i].Value = "***REDACTED***"
				goto nextField
			}
		}

		if v, ok := f.Value.(string); ok {
			sanitized[i].Value = sanitizeMessage(v)
		}

	nextField:
	}

	return sanitized
}

// Logger defines the interface used throughout the application
type Logger interface {
	// Debug logs a message at debug level
	Debug(msg string, fields ...Field)

	// Info logs a message at info level
	Info(msg string, fields ...Field)

	// Warn logs a message at warn level
	Warn(msg string, fields ...Field)

	// Error logs a message at error level
	Error(msg string, fields ...Field)

	// WithFields returns a new logger with the given fields added to each log entry
	WithFields(fields ...Field) Logger

	// SetLevel sets the minimum log level
	SetLevel(level Level)

	// SetOutput sets the output destination
	SetOutput(w io.Writer)
}
