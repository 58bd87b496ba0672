// Package logger provides the component-scoped leveled logger used across
// ChefSnap. Debug and Info lines are only written in verbose mode.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// sink is shared by every logger derived from the same root so that
// redirecting output (e.g. while the TUI owns the terminal) affects all.
type sink struct {
	mu sync.Mutex
	w  io.Writer
}

// Logger writes "[15:04:05.000] LEVEL [component] message [k=v ...]" lines
type Logger struct {
	component string
	verbose   func() bool
	out       *sink
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// New creates a root logger writing to stderr. verbose may be nil.
func New(component string, verbose func() bool) *Logger {
	return &Logger{
		component: component,
		verbose:   verbose,
		out:       &sink{w: os.Stderr},
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return &Logger{out: &sink{w: io.Discard}}
}

// WithComponent derives a logger sharing this logger's output
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		component: component,
		verbose:   l.verbose,
		out:       l.out,
	}
}

// SetOutput redirects this logger and every logger derived from it
func (l *Logger) SetOutput(w io.Writer) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.w = w
}

// IsVerbose reports whether Debug and Info lines are written
func (l *Logger) IsVerbose() bool {
	return l.verbose != nil && l.verbose()
}

// Debug logs debug messages (only when verbose)
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.IsVerbose() {
		l.log(LevelDebug, msg, nil, args...)
	}
}

// Info logs informational messages (only when verbose)
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.IsVerbose() {
		l.log(LevelInfo, msg, nil, args...)
	}
}

// Warn logs warning messages (always shown)
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(LevelWarn, msg, nil, args...)
}

// Error logs error messages (always shown)
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(LevelError, msg, nil, args...)
}

// DebugWithFields logs a debug message with structured fields
func (l *Logger) DebugWithFields(msg string, fields []Field, args ...interface{}) {
	if l.IsVerbose() {
		l.log(LevelDebug, msg, fields, args...)
	}
}

// InfoWithFields logs an info message with structured fields
func (l *Logger) InfoWithFields(msg string, fields []Field, args ...interface{}) {
	if l.IsVerbose() {
		l.log(LevelInfo, msg, fields, args...)
	}
}

// WarnWithFields logs a warning with structured fields
func (l *Logger) WarnWithFields(msg string, fields []Field, args ...interface{}) {
	l.log(LevelWarn, msg, fields, args...)
}

func (l *Logger) log(level Level, msg string, fields []Field, args ...interface{}) {
	component := l.component
	if component == "" {
		component = "main"
	}

	formatted := msg
	if len(args) > 0 {
		formatted = fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s [%s] %s", time.Now().Format("15:04:05.000"), level, component, formatted)
	if len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(parts, " "))
	}
	b.WriteByte('\n')

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	// A failed log write has nowhere to be reported.
	_, _ = io.WriteString(l.out.w, b.String())
}

// F builds a field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Duration builds a "duration" field
func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d}
}

// Err builds an "error" field
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Bytes builds a "bytes" field
func Bytes(n int64) Field {
	return Field{Key: "bytes", Value: n}
}
