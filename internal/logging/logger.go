// Package logging provides leveled key/value logging for tape. Log lines go
// to stderr so they never mix with a program's byte output on stdout.
package logging

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
)

// Level represents a log level.
type Level int

const (
	// LevelDebug is for per-run tracing (instruction counts, timings).
	LevelDebug Level = iota
	// LevelInfo is for lifecycle messages such as watch reloads.
	LevelInfo
	// LevelWarn is for recoverable problems.
	LevelWarn
	// LevelError is for failed runs.
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// String returns the upper-case level name.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel maps a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelWarn, fmt.Errorf("unknown log level %q", s)
}

// Logger writes leveled messages with attached context fields.
type Logger struct {
	mu       sync.RWMutex
	minLevel Level
	fields   map[string]interface{}
	output   *log.Logger
}

var defaultLogger = New()

// New creates a Logger at warn level writing to stderr.
func New() *Logger {
	return &Logger{
		minLevel: LevelWarn,
		fields:   make(map[string]interface{}),
		output:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// Level returns the minimum log level.
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.minLevel
}

// SetOutput sets the output logger.
func (l *Logger) SetOutput(output *log.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = output
}

// Enabled reports whether a message at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.Level()
}

// With returns a child Logger carrying one more context field.
func (l *Logger) With(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a child Logger carrying additional context fields.
// The receiver is not modified.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &Logger{
		minLevel: l.minLevel,
		fields:   merged,
		output:   l.output,
	}
}

func (l *Logger) log(level Level, msg string, keyVals ...interface{}) {
	l.mu.RLock()
	minLevel := l.minLevel
	output := l.output
	fields := l.fields
	l.mu.RUnlock()

	if level < minLevel {
		return
	}

	all := make(map[string]interface{}, len(fields)+len(keyVals)/2)
	for k, v := range fields {
		all[k] = v
	}
	for i := 0; i+1 < len(keyVals); i += 2 {
		if key, ok := keyVals[i].(string); ok {
			all[key] = keyVals[i+1]
		}
	}

	var sb strings.Builder
	sb.WriteString(level.String())
	sb.WriteString(": ")
	sb.WriteString(msg)

	if len(all) > 0 {
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString(" |")
		for _, k := range keys {
			sb.WriteString(" ")
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(formatValue(all[k]))
		}
	}

	output.Print(sb.String())
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if val == "" || strings.ContainsAny(val, " \t\n\"") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case error:
		return fmt.Sprintf("%q", val.Error())
	case fmt.Stringer:
		return formatValue(val.String())
	default:
		return fmt.Sprint(v)
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, keyVals ...interface{}) {
	l.log(LevelDebug, msg, keyVals...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, keyVals ...interface{}) {
	l.log(LevelInfo, msg, keyVals...)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, keyVals ...interface{}) {
	l.log(LevelWarn, msg, keyVals...)
}

// Error logs at error level.
func (l *Logger) Error(msg string, keyVals ...interface{}) {
	l.log(LevelError, msg, keyVals...)
}

// Default returns the package-level logger.
func Default() *Logger {
	return defaultLogger
}

// SetLevel sets the minimum log level for the default logger.
func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

// SetOutput sets the output for the default logger.
func SetOutput(output *log.Logger) {
	defaultLogger.SetOutput(output)
}

// With returns a child of the default logger.
func With(key string, value interface{}) *Logger {
	return defaultLogger.With(key, value)
}

// WithFields returns a child of the default logger.
func WithFields(fields map[string]interface{}) *Logger {
	return defaultLogger.WithFields(fields)
}

// Debug logs at debug level using the default logger.
func Debug(msg string, keyVals ...interface{}) {
	defaultLogger.Debug(msg, keyVals...)
}

// Info logs at info level using the default logger.
func Info(msg string, keyVals ...interface{}) {
	defaultLogger.Info(msg, keyVals...)
}

// Warn logs at warn level using the default logger.
func Warn(msg string, keyVals ...interface{}) {
	defaultLogger.Warn(msg, keyVals...)
}

// Error logs at error level using the default logger.
func Error(msg string, keyVals ...interface{}) {
	defaultLogger.Error(msg, keyVals...)
}
