package app

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"Warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{" error ", LogLevelError},
		{"unknown", LogLevelInfo},
		{"", LogLevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func newTestLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Level: level, Output: &buf, Prefix: "test"})
	l.sink.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l, &buf
}

func TestLoggerFormat(t *testing.T) {
	l, buf := newTestLogger(LogLevelDebug)

	l.WithField("session", "abc").WithComponent("storage").Error("save %s failed", "doc")

	want := "2024-01-02T03:04:05.000 [ERROR] test: save doc failed {component=storage, session=abc}\n"
	if got := buf.String(); got != want {
		t.Errorf("log line = %q, want %q", got, want)
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	l, buf := newTestLogger(LogLevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("log = %q, want only warn", buf.String())
	}

	// Derived loggers share the level.
	child := l.WithComponent("export")
	l.SetLevel(LogLevelDebug)
	child.Debug("child debug")
	if !strings.Contains(buf.String(), "child debug") {
		t.Errorf("log = %q, want child debug line", buf.String())
	}
	if l.Level() != LogLevelDebug {
		t.Errorf("Level() = %v, want DEBUG", l.Level())
	}
}

func TestLoggerDisable(t *testing.T) {
	l, buf := newTestLogger(LogLevelDebug)
	l.Disable()
	l.Error("nope")
	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %q", buf.String())
	}
	l.Enable()
	l.Error("yes")
	if buf.Len() == 0 {
		t.Error("enabled logger wrote nothing")
	}
}

func TestNullLogger(t *testing.T) {
	// Must not panic.
	NullLogger.WithField("k", "v").Error("discarded")
}
