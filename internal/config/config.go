package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir   string `toml:"log_dir"`
	TempDir  string `toml:"temp_dir"`
	ModelDir string `toml:"model_dir"`
}

// Tools contains external binary locations. Bare names are resolved via PATH.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
	Whisper string `toml:"whisper"`
}

// Analysis contains sampling and confidence thresholds for track analysis.
type Analysis struct {
	SampleCount   int     `toml:"sample_count"`
	SampleSeconds float64 `toml:"sample_seconds"`
	// SamplePositions are fractions of the track duration where samples start.
	// When empty, positions are derived evenly from SampleCount.
	SamplePositions []float64 `toml:"sample_positions"`
	MinConfidence   float64   `toml:"min_confidence"`
	// Extended analysis window used when sampling is inconclusive.
	ExtendedStartPercent    float64 `toml:"extended_start_percent"`
	ExtendedDurationPercent float64 `toml:"extended_duration_percent"`
	ExtendedMaxSeconds      float64 `toml:"extended_max_seconds"`
	// SampleWorkers bounds concurrent sample extraction.
	// Zero means min(sample count, GOMAXPROCS).
	SampleWorkers int `toml:"sample_workers"`
}

// VAD contains voice activity detection settings.
type VAD struct {
	Aggressiveness   int `toml:"aggressiveness"`
	FrameMs          int `toml:"frame_ms"`
	MinVoicedPercent int `toml:"min_voiced_percent"`
}

// Whisper contains language model settings.
type Whisper struct {
	Model        string `toml:"model"`
	Threads      int    `toml:"threads"`
	Transcribe   bool   `toml:"transcribe"`
	MinClipBytes int    `toml:"min_clip_bytes"`
}

// Repetition contains hallucination detection thresholds for transcriptions.
type Repetition struct {
	ConsecutiveRatio float64 `toml:"consecutive_ratio"`
	DominantRatio    float64 `toml:"dominant_ratio"`
}

// Cache contains configuration for the verdict cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Ignore contains configuration for skipping tracks by title.
type Ignore struct {
	TitleKeywords []string `toml:"title_keywords"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values.
//
// Configuration sections by subsystem:
//   - Paths: log, temp, and model directories
//   - Tools: ffmpeg, ffprobe, and whisper binary locations
//   - Analysis: sample schedule and confidence thresholds
//   - VAD: voice activity detection tuning
//   - Whisper: model selection and transcription settings
//   - Repetition: transcription hallucination thresholds
//   - Cache: per-file verdict cache
//   - Ignore: track title keywords that skip analysis
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Tools      Tools      `toml:"tools"`
	Analysis   Analysis   `toml:"analysis"`
	VAD        VAD        `toml:"vad"`
	Whisper    Whisper    `toml:"whisper"`
	Repetition Repetition `toml:"repetition"`
	Cache      Cache      `toml:"cache"`
	Ignore     Ignore     `toml:"ignore"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/langprobe/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("langprobe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories analysis writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.TempDir, c.Paths.ModelDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) != "" {
		if err := os.MkdirAll(filepath.Dir(c.Cache.Path), 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}
	return nil
}

// ModelPath returns the on-disk location of the configured whisper model.
func (c *Config) ModelPath() string {
	return filepath.Join(c.Paths.ModelDir, fmt.Sprintf("ggml-%s.bin", c.Whisper.Model))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "langprobe", "verdicts.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/langprobe/verdicts.db"
	}
	return filepath.Join(home, ".cache", "langprobe", "verdicts.db")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
