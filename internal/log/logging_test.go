package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestConsoleHandlerPlain(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, slog.LevelDebug, false))
	logger.With("control", "aec").WithGroup("req").Info("write", "status", 200)

	out := buf.String()
	assert.Contains(t, out, " INFO write control=aec req.status=200")
	assert.NotContains(t, out, "\033[")
}

func TestConsoleHandlerColor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, LevelTrace, true))
	logger.Log(context.Background(), LevelTrace, "raw")
	assert.Contains(t, buf.String(), "\033[35mTRACE\033[0m raw")
}

func TestLevelFilterSplitsByLevel(t *testing.T) {
	var low, high bytes.Buffer
	h := MultiHandler{hs: []slog.Handler{
		LevelFilter{pass: func(l slog.Level) bool { return l < slog.LevelError }, h: newConsoleHandler(&low, slog.LevelInfo, false)},
		LevelFilter{pass: func(l slog.Level) bool { return l >= slog.LevelError }, h: newConsoleHandler(&high, slog.LevelError, false)},
	}}
	logger := slog.New(h)
	logger.Info("hello")
	logger.Debug("hidden")
	logger.Error("boom")

	assert.Contains(t, low.String(), "hello")
	assert.NotContains(t, low.String(), "boom")
	assert.NotContains(t, low.String(), "hidden")
	assert.Contains(t, high.String(), "boom")
	assert.NotContains(t, high.String(), "hello")
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	raw := NewRaw(&buf)
	raw.Log(true, "GET http://cam/status")
	raw.Log(false, "200 12 bytes")
	assert.Contains(t, buf.String(), "-> GET http://cam/status\n")
	assert.Contains(t, buf.String(), "<- 200 12 bytes\n")

	assert.NotPanics(t, func() { NewRaw(nil).Log(true, "dropped") })
}
