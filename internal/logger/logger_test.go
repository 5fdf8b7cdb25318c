package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CustomWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})
	logger.Info("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), `"level":"INFO"`)
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		environment string
		wantJSON    bool
	}{
		{"production", true},
		{"development", false},
		{"staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			var buf bytes.Buffer
			New(Config{Level: slog.LevelInfo, Environment: tt.environment, Writer: &buf}).Info("test")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"test"`)
			} else {
				assert.Contains(t, buf.String(), "INF test")
			}
		})
	}
}

func TestNew_ColorOnlyOnTerminal(t *testing.T) {
	var plain bytes.Buffer
	New(Config{Format: "pretty", Writer: &plain}).Info("ingested", "video_id", "v1")
	assert.NotContains(t, plain.String(), "\033[")
	assert.Contains(t, plain.String(), "INF ingested video_id=v1")

	var forced bytes.Buffer
	New(Config{Format: "pretty", Writer: &forced, Color: ColorAlways}).Info("ingested")
	assert.Contains(t, forced.String(), colorGreen+"INF"+colorReset)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DeBuG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	handler := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})

	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	handler.color = false

	slog.New(handler).Info("chapters generated", "video_id", "v1", "count", 3, "took", 250*time.Millisecond)

	output := buf.String()
	assert.Contains(t, output, "chapters generated")
	assert.Contains(t, output, "video_id=v1")
	assert.Contains(t, output, "count=3")
	assert.Contains(t, output, "took=250ms")
	assert.Contains(t, output, "INF")
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	handler.color = false

	assert.Equal(t, handler, handler.WithGroup(""))

	h := handler.WithAttrs([]slog.Attr{slog.String("component", "webhook")}).
		WithGroup("event").
		WithAttrs([]slog.Attr{slog.String("provider", "mux")})

	slog.New(h).Info("received", "type", "video.asset.ready")

	assert.Contains(t, buf.String(), "component=webhook event.provider=mux event.type=video.asset.ready")
}

func TestPrettyHandler_WithSource(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true})

	slog.New(handler).Info("test message")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestFormatLevel(t *testing.T) {
	tests := []struct {
		level     slog.Level
		wantStr   string
		wantColor string
	}{
		{slog.LevelDebug, "DBG", colorMagenta},
		{slog.LevelInfo, "INF", colorGreen},
		{slog.LevelWarn, "WRN", colorYellow},
		{slog.LevelError, "ERR", colorRed},
		{slog.LevelError + 4, "ERROR+4", colorGray},
	}

	for _, tt := range tests {
		t.Run(tt.wantStr, func(t *testing.T) {
			str, color := formatLevel(tt.level)
			assert.Equal(t, tt.wantStr, str)
			assert.Equal(t, tt.wantColor, color)
		})
	}
}

func TestFormatValue(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		value slog.Value
		want  string
	}{
		{"string", slog.StringValue("test"), "test"},
		{"string with spaces", slog.StringValue("john 3:16"), `"john 3:16"`},
		{"time", slog.TimeValue(now), now.Format(time.RFC3339)},
		{"duration", slog.DurationValue(5 * time.Second), "5s"},
		{"int", slog.IntValue(42), "42"},
		{"float", slog.Float64Value(30.5), "30.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.value))
		})
	}
}

func TestLogger_ChainedWithMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.
		WithField("request_id", "req-123").
		WithError(errors.New("signature mismatch")).
		WithFields(map[string]any{
			"provider": "cloudflare",
			"video_id": "v1",
		}).
		Error("webhook rejected")

	output := buf.String()
	assert.Contains(t, output, `"request_id":"req-123"`)
	assert.Contains(t, output, `"error":"signature mismatch"`)
	assert.Contains(t, output, `"provider":"cloudflare"`)
	assert.Contains(t, output, `"video_id":"v1"`)
	assert.Contains(t, output, "webhook rejected")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Format: "json", Writer: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestNewPrettyHandler_NilOptions(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, nil)
	assert.Nil(t, handler.opts.Level)
	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))

	slog.New(handler).Info("test")
	assert.Contains(t, buf.String(), "test")
}

func TestPrettyHandler_ColorsKeysAndErrors(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, nil)

	slog.New(handler).Warn("ingest failed", "video_id", "v1", "error", "bad header")

	out := buf.String()
	assert.Contains(t, out, colorCyan+"video_id="+colorReset+"v1")
	assert.Contains(t, out, colorRed+`"bad header"`+colorReset)
	assert.Contains(t, out, colorYellow+"WRN"+colorReset)
}

func TestPrettyHandler_InlineGroups(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, nil)
	handler.color = false

	slog.New(handler).Info("event broadcast",
		slog.Group("stats", slog.Int("delivered", 2), slog.Int("dropped", 0)),
		slog.Group("empty"),
	)

	assert.Contains(t, buf.String(), "event broadcast stats.delivered=2 stats.dropped=0\n")
	assert.NotContains(t, buf.String(), "empty")
}
