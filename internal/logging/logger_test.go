package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New()
	logger.SetLevel(level)
	logger.SetOutput(log.New(&buf, "", 0))
	return logger, &buf
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug allowed at debug", LevelDebug, LevelDebug, true},
		{"error allowed at debug", LevelDebug, LevelError, true},
		{"debug blocked at info", LevelInfo, LevelDebug, false},
		{"info allowed at info", LevelInfo, LevelInfo, true},
		{"info blocked at warn", LevelWarn, LevelInfo, false},
		{"warn allowed at warn", LevelWarn, LevelWarn, true},
		{"warn blocked at error", LevelError, LevelWarn, false},
		{"error allowed at error", LevelError, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newTestLogger(tt.minLevel)

			switch tt.logLevel {
			case LevelDebug:
				logger.Debug("run finished")
			case LevelInfo:
				logger.Info("run finished")
			case LevelWarn:
				logger.Warn("run finished")
			case LevelError:
				logger.Error("run finished")
			}

			if tt.shouldLog {
				assert.Contains(t, buf.String(), "run finished")
			} else {
				assert.Empty(t, buf.String(), "expected no log output")
			}
			assert.Equal(t, tt.shouldLog, logger.Enabled(tt.logLevel))
		})
	}
}

func TestLoggerFieldsAreSorted(t *testing.T) {
	logger, buf := newTestLogger(LevelDebug)

	logger.WithFields(map[string]interface{}{
		"run":     "abc123",
		"program": "hello.b",
	}).Info("run started", "instructions", 12)

	assert.Equal(t, "INFO: run started | instructions=12 program=hello.b run=abc123\n", buf.String())
}

func TestLoggerInlineKeyVals(t *testing.T) {
	logger, buf := newTestLogger(LevelDebug)

	logger.Error("run failed", "error", errors.New("input exhausted"), "position", 3)

	output := buf.String()
	assert.Contains(t, output, "ERROR: run failed")
	assert.Contains(t, output, `error="input exhausted"`)
	assert.Contains(t, output, "position=3")
}

func TestLoggerChildDoesNotModifyParent(t *testing.T) {
	logger, buf := newTestLogger(LevelDebug)

	child := logger.With("run", "abc123").With("program", "loop.b")
	child.Info("child")
	assert.Contains(t, buf.String(), "program=loop.b run=abc123")

	buf.Reset()
	logger.Info("parent")
	assert.NotContains(t, buf.String(), "run=")
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"simple string", "hello", "hello"},
		{"empty string", "", `""`},
		{"string with spaces", "hello world", `"hello world"`},
		{"integer", 42, "42"},
		{"error", errors.New("oops"), `"oops"`},
		{"stringer", LevelInfo, "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatValue(tt.input))
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
	assert.Equal(t, "LEVEL(9)", Level(9).String())
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(log.New(&buf, "", 0))
	SetLevel(LevelWarn)
	defer SetOutput(log.New(&bytes.Buffer{}, "", 0))

	Debug("hidden")
	assert.Empty(t, buf.String())

	Warn("shown")
	assert.True(t, strings.HasPrefix(buf.String(), "WARN: shown"))

	buf.Reset()
	With("component", "watch").Error("boom")
	assert.Contains(t, buf.String(), "component=watch")
	assert.Same(t, defaultLogger, Default())
}
