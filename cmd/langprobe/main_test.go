package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"langprobe/internal/processor"
	"langprobe/internal/store"
	"langprobe/internal/track"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf(`[paths]
log_dir = %q
temp_dir = %q
model_dir = %q

[tools]
ffmpeg = "missing-ffmpeg"
ffprobe = "missing-ffprobe"
whisper = "missing-whisper"

[cache]
enabled = false
`,
		filepath.Join(base, "logs"),
		filepath.Join(base, "tmp"),
		filepath.Join(base, "models"),
	)
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output missing %q:\n%s", needle, haystack)
	}
}

func TestConfigInit(t *testing.T) {
	configPath := writeTestConfig(t)
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, configPath, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, err := runCLI(t, configPath, "config", "init", "--path", target); err == nil {
		t.Fatal("config init overwrote an existing file without --overwrite")
	}
	if _, err := runCLI(t, configPath, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCLI(t, configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# "+configPath)
	requireContains(t, out, "[analysis]")
	requireContains(t, out, "min_confidence")
}

func TestModelsList(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCLI(t, configPath, "models", "list")
	if err != nil {
		t.Fatalf("models list: %v", err)
	}
	for _, name := range []string{"tiny", "base", "small", "medium", "large-v3"} {
		requireContains(t, out, name)
	}
	requireContains(t, out, "no")
}

func TestPreflightReportsFailures(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCLI(t, configPath, "preflight")
	if err == nil {
		t.Fatal("preflight passed with missing binaries")
	}
	requireContains(t, out, "FAIL")
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "Whisper model")
}

func TestCachePurge(t *testing.T) {
	base := t.TempDir()
	cachePath := filepath.Join(base, "verdicts.db")
	content := fmt.Sprintf(`[paths]
log_dir = %q
temp_dir = %q
model_dir = %q

[cache]
enabled = true
path = %q
`,
		filepath.Join(base, "logs"),
		filepath.Join(base, "tmp"),
		filepath.Join(base, "models"),
		cachePath,
	)
	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	key := store.Key{File: "/media/movie.mkv", Size: 10, ModTime: time.Now().UTC(), Model: "base"}
	db, err := store.Open(cachePath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	if err := db.Put(context.Background(), key, []byte(`{"file":"/media/movie.mkv"}`)); err != nil {
		t.Fatalf("seed verdict: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	out, err := runCLI(t, configPath, "cache", "purge", "/media/movie.mkv")
	if err != nil {
		t.Fatalf("cache purge: %v", err)
	}
	requireContains(t, out, "Purged cached verdicts for /media/movie.mkv")

	db, err = store.Open(cachePath)
	if err != nil {
		t.Fatalf("store.Open (verify): %v", err)
	}
	defer db.Close()
	if _, found, err := db.Get(context.Background(), key); err != nil {
		t.Fatalf("Get: %v", err)
	} else if found {
		t.Error("verdict survived the purge")
	}
}

func TestRenderReport(t *testing.T) {
	confidence := 0.92
	report := &processor.Report{
		File:            "/media/movie.mkv",
		DurationSeconds: 5400,
		Model:           "base",
		Tracks: []track.Result{
			{
				ID:                  0,
				Codec:               "dts",
				Channels:            6,
				OriginalLanguage:    "eng",
				OriginalLanguageISO: "eng",
				DetectedLanguage:    "en",
				DetectedLanguageISO: "eng",
				Confidence:          &confidence,
				Stats:               track.Stats{Method: track.MethodSampling},
			},
			{
				ID:          1,
				Codec:       "ac3",
				Channels:    2,
				NeedsReview: true,
			},
			{
				ID:           2,
				Codec:        "aac",
				Channels:     2,
				Title:        "Director Commentary",
				ShouldIgnore: true,
			},
		},
	}

	var buf bytes.Buffer
	renderReport(&buf, report, false)
	out := buf.String()

	requireContains(t, out, "/media/movie.mkv")
	requireContains(t, out, "1h30m0s")
	requireContains(t, out, "dts")
	requireContains(t, out, "0.92")
	requireContains(t, out, "sampling")
	requireContains(t, out, "ignored")
	requireContains(t, out, "3 track(s) analyzed, 1 flagged for review")
}

func TestFormatHelpers(t *testing.T) {
	if got := formatConfidence(nil); got != "-" {
		t.Errorf("formatConfidence(nil) = %q, want -", got)
	}
	if got := formatDuration(0); got != "unknown duration" {
		t.Errorf("formatDuration(0) = %q", got)
	}
	if got := orDash(" "); got != "-" {
		t.Errorf("orDash(blank) = %q, want -", got)
	}
	if got := yesNo(true); got != "yes" {
		t.Errorf("yesNo(true) = %q", got)
	}
	if got := languageCell("eng"); got != "eng (English)" {
		t.Errorf("languageCell(eng) = %q", got)
	}
	if got := languageCell(""); got != "-" {
		t.Errorf("languageCell(empty) = %q, want -", got)
	}
}
