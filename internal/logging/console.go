package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ConsoleLogger implements the Logger interface for console output
type ConsoleLogger struct {
	level  Level
	output io.Writer
	fields []Field
	mu     sync.Mutex
}

// NewConsoleLogger creates a logger writing plain text to stderr
func NewConsoleLogger(level Level) *ConsoleLogger {
	return &ConsoleLogger{
		level:  level,
		output: os.Stderr,
	}
}

// Debug logs a message at debug level
func (l *ConsoleLogger) Debug(msg string, fields ...Field) {
	l.log(Debug, msg, fields)
}

// Info logs a message at info level
func (l *ConsoleLogger) Info(msg string, fields ...Field) {
	l.log(Info, msg, fields)
}

// Warn logs a message at warn level
func (l *ConsoleLogger) Warn(msg string, fields ...Field) {
	l.log(Warn, msg, fields)
}

// Error logs a message at error level
func (l *ConsoleLogger) Error(msg string, fields ...Field) {
	l.log(Error, msg, fields)
}

// WithFields returns a new logger with the given fields added to each log entry
func (l *ConsoleLogger) WithFields(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	combined := make([]Field, 0, len(l.fields)+len(fields))
	combined = append(combined, l.fields...)
	combined = append(combined, fields...)

	return &ConsoleLogger{
		level:  l.level,
		output: l.output,
		fields: combined,
	}
}

// SetLevel sets the minimum log level
func (l *ConsoleLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput sets the output destination
func (l *ConsoleLogger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

func (l *ConsoleLogger) log(level Level, msg string, fields []Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)
	all = sanitizeFields(all)

	fmt.Fprintf(l.output, "%s [%s] %s", time.Now().Format(time.RFC3339), level, sanitizeMessage(msg))
	for _, f := range all {
		fmt.Fprintf(l.output, " %s=%v", f.Key, f.Value)
	}
	fmt.Fprintln(l.output)
}
