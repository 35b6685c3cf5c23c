package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandlerPromotesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	NewComponentLogger(logger, "analyzer").Info("sample accepted",
		Int(FieldTrack, 2),
		Float64("voiced", 42.5))

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INFO analyzer: sample accepted") {
		t.Errorf("component not promoted into prefix: %q", line)
	}
	if !strings.Contains(line, "track=2") {
		t.Errorf("missing track attr: %q", line)
	}
	if !strings.Contains(line, "voiced=42.5") {
		t.Errorf("missing voiced attr: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Errorf("component should not appear as key=value: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("inspecting", String(FieldMedia, "/media/Some Movie.mkv"))

	if !strings.Contains(buf.String(), `media="/media/Some Movie.mkv"`) {
		t.Errorf("value with spaces not quoted: %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("info line should be suppressed at warn level: %q", out)
	}
	if !strings.Contains(out, "emitted") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestConsoleHandlerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.WithGroup("whisper").Info("detected", String("language", "en"))

	if !strings.Contains(buf.String(), "whisper.language=en") {
		t.Errorf("group prefix missing: %q", buf.String())
	}
}

func TestJSONHandlerKeyMapping(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("done", Int(FieldSample, 3))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if payload["msg"] != "done" {
		t.Errorf("msg = %v, want done", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Errorf("level = %v, want info", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Error("ts key missing")
	}
	if payload[FieldSample] != float64(3) {
		t.Errorf("sample = %v, want 3", payload[FieldSample])
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("nop logger should report disabled at every level")
	}
}
