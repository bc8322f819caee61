package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlain(buf *bytes.Buffer, level slog.Level) *Logger {
	return New(Config{
		Writer:      buf,
		Environment: "development",
		Level:       level,
		NoColor:     true,
	})
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantJSON    bool
	}{
		{"production uses json", "production", true},
		{"development uses pretty", "development", false},
		{"staging uses pretty", "staging", false},
		{"empty uses pretty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Writer: &buf, Environment: tt.environment, Level: slog.LevelInfo, NoColor: true})
			log.Info("score recorded", "score", 120)

			var decoded map[string]any
			err := json.Unmarshal(buf.Bytes(), &decoded)
			if tt.wantJSON {
				require.NoError(t, err)
				assert.Equal(t, "score recorded", decoded["msg"])
				assert.InDelta(t, 120, decoded["score"], 0)
			} else {
				assert.Error(t, err)
				assert.Contains(t, buf.String(), "INF score recorded score=120")
			}
		})
	}
}

func TestNew_ExplicitFormatWins(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: formatJSON, Environment: "development"})
	log.Info("hello")

	assert.True(t, json.Valid(buf.Bytes()))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}, true)
	ctx := context.Background()

	assert.False(t, h.Enabled(ctx, slog.LevelDebug))
	assert.False(t, h.Enabled(ctx, slog.LevelInfo))
	assert.True(t, h.Enabled(ctx, slog.LevelWarn))
	assert.True(t, h.Enabled(ctx, slog.LevelError))
}

func TestNewPrettyHandler_NilOptionsDefaultsToInfo(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, nil, true)
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
}

func TestPrettyHandler_LevelLabels(t *testing.T) {
	var buf bytes.Buffer
	log := newPlain(&buf, slog.LevelDebug)

	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	for i, label := range []string{"DBG d", "INF i", "WRN w", "ERR e"} {
		assert.Contains(t, lines[i], label)
	}
}

func TestPrettyHandler_LineLayout(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil, true)

	at := time.Date(2024, 5, 1, 13, 45, 9, 0, time.UTC)
	r := slog.NewRecord(at, slog.LevelInfo, "leaderboard served", 0)
	r.AddAttrs(slog.Int("entries", 3), slog.String("viewer", "user-1"))
	require.NoError(t, h.Handle(context.Background(), r))

	assert.Equal(t, "13:45:09 INF leaderboard served entries=3 viewer=user-1\n", buf.String())
}

func TestPrettyHandler_NoColorHasNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	newPlain(&buf, slog.LevelInfo).Info("plain", "k", "v")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	log := newPlain(&buf, slog.LevelInfo)

	log.With("component", "games").WithGroup("session").Info("finished", "score", 300)

	assert.Contains(t, buf.String(), "component=games session.score=300")
}

func TestPrettyHandler_WithAttrsDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := newPlain(&buf, slog.LevelInfo)
	_ = base.With("request_id", "abc")

	base.Info("plain")
	assert.NotContains(t, buf.String(), "request_id")
}

func TestPrettyHandler_WithSource(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "development", AddSource: true, NoColor: true})
	log.Info("with source")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestFormatValue(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, "2024-01-02T03:04:05Z", formatValue(slog.TimeValue(at)))
	assert.Equal(t, "1.5s", formatValue(slog.DurationValue(1500*time.Millisecond)))
	assert.Equal(t, "simple", formatValue(slog.StringValue("simple")))
	assert.Equal(t, `"Jogador abc..."`, formatValue(slog.StringValue("Jogador abc...")))
	assert.Equal(t, "42", formatValue(slog.IntValue(42)))
	assert.Equal(t, "true", formatValue(slog.BoolValue(true)))
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	log := newPlain(&buf, slog.LevelInfo)

	log.WithError(errors.New("store down")).Error("insert failed")
	assert.Contains(t, buf.String(), `error="store down"`)

	buf.Reset()
	log.WithField("user_id", "u1").Info("signed in")
	assert.Contains(t, buf.String(), "user_id=u1")

	buf.Reset()
	log.WithFields(map[string]any{"game": "clicker", "score": 90}).Info("submitted")
	assert.Contains(t, buf.String(), "game=clicker")
	assert.Contains(t, buf.String(), "score=90")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := newPlain(&buf, slog.LevelWarn)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
