// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func newBufferedSlog(level zerolog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(level)
	return slog.New(NewSlogHandler(zl)), &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return m
}

func TestSlogHandler_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
		{slog.LevelError + 4, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			logger, buf := newBufferedSlog(zerolog.TraceLevel)
			logger.Log(context.Background(), tt.level, "msg")
			if got := lastLine(t, buf)["level"]; got != tt.want {
				t.Errorf("level = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	ctx := context.Background()

	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(ctx, slog.LevelWarn) || !h.Enabled(ctx, slog.LevelError) {
		t.Error("warn and error should be enabled")
	}
}

func TestSlogHandler_AttrKinds(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferedSlog(zerolog.TraceLevel)
	logger.Info("kinds",
		slog.String("s", "v"),
		slog.Int("i", 3),
		slog.Uint64("u", 4),
		slog.Float64("f", 1.5),
		slog.Bool("b", true),
		slog.Duration("d", time.Second),
		slog.Any("err", errors.New("boom")),
		slog.Any("list", []int{1, 2}),
	)

	m := lastLine(t, buf)
	checks := map[string]any{
		"s":   "v",
		"i":   float64(3),
		"u":   float64(4),
		"f":   1.5,
		"b":   true,
		"err": "boom",
	}
	for k, want := range checks {
		if m[k] != want {
			t.Errorf("%s = %v (%T), want %v", k, m[k], m[k], want)
		}
	}
	if _, ok := m["d"]; !ok {
		t.Error("duration missing")
	}
	if _, ok := m["list"]; !ok {
		t.Error("any value missing")
	}
}

func TestSlogHandler_GroupsAndAttrs(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferedSlog(zerolog.TraceLevel)
	logger.With("service", "retrain").
		WithGroup("supervisor").
		Info("restart", slog.Group("event", slog.Int("failures", 2)))

	m := lastLine(t, buf)
	if m["service"] != "retrain" {
		t.Errorf("pre-configured attr = %v", m)
	}
	if m["supervisor.event.failures"] != float64(2) {
		t.Errorf("nested group attr = %v", m)
	}
}

func TestSlogHandler_EmptyGroupAndAttrs(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.Nop())
	if h.WithGroup("") != slog.Handler(h) {
		t.Error("empty group should return the same handler")
	}
	if h.WithAttrs(nil) != slog.Handler(h) {
		t.Error("no attrs should return the same handler")
	}
}

func TestSlogHandler_RequestIDFromContext(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferedSlog(zerolog.TraceLevel)
	ctx := ContextWithRequestID(context.Background(), "req-5")
	logger.InfoContext(ctx, "with request")

	if got := lastLine(t, buf)["request_id"]; got != "req-5" {
		t.Errorf("request_id = %v", got)
	}
}

func TestNewSlogLogger(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "info"})

	NewSlogLogger("supervisor").Warn("service restarted")

	m := lastLine(t, buf)
	if m["component"] != "supervisor" || m["message"] != "service restarted" {
		t.Errorf("fields = %v", m)
	}
}
