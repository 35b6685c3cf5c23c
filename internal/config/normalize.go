package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeAnalysis()
	c.normalizeWhisper()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeIgnore()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = os.TempDir()
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ModelDir) == "" {
		c.Paths.ModelDir = defaultModelDir
	}
	if c.Paths.ModelDir, err = expandPath(c.Paths.ModelDir); err != nil {
		return fmt.Errorf("paths.model_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
	c.Tools.Whisper = strings.TrimSpace(c.Tools.Whisper)
	if c.Tools.Whisper == "" {
		c.Tools.Whisper = defaultWhisperBinary
	}
}

func (c *Config) normalizeAnalysis() {
	if c.Analysis.SampleCount <= 0 {
		c.Analysis.SampleCount = defaultSampleCount
	}
	if c.Analysis.SampleSeconds <= 0 {
		c.Analysis.SampleSeconds = defaultSampleSeconds
	}
	if len(c.Analysis.SamplePositions) == 0 {
		c.Analysis.SamplePositions = evenPositions(c.Analysis.SampleCount)
	} else {
		c.Analysis.SampleCount = len(c.Analysis.SamplePositions)
	}
	if c.Analysis.MinConfidence <= 0 {
		c.Analysis.MinConfidence = defaultMinConfidence
	}
	if c.Analysis.ExtendedStartPercent <= 0 {
		c.Analysis.ExtendedStartPercent = defaultExtendedStartPercent
	}
	if c.Analysis.ExtendedDurationPercent <= 0 {
		c.Analysis.ExtendedDurationPercent = defaultExtendedDurationPercent
	}
	if c.Analysis.ExtendedMaxSeconds <= 0 {
		c.Analysis.ExtendedMaxSeconds = defaultExtendedMaxSeconds
	}
	if c.Analysis.SampleWorkers < 0 {
		c.Analysis.SampleWorkers = 0
	}
}

// evenPositions spreads count sample positions evenly across the middle of
// the track, matching the default layout when no explicit positions are set.
func evenPositions(count int) []float64 {
	if count == defaultSampleCount {
		return defaultSamplePositions()
	}
	positions := make([]float64, count)
	for i := range positions {
		positions[i] = float64(i+1) / float64(count+1)
	}
	return positions
}

func (c *Config) normalizeWhisper() {
	c.Whisper.Model = strings.ToLower(strings.TrimSpace(c.Whisper.Model))
	if c.Whisper.Model == "" {
		c.Whisper.Model = defaultWhisperModel
	}
	if c.Whisper.Threads < 0 {
		c.Whisper.Threads = 0
	}
	if c.Whisper.MinClipBytes <= 0 {
		c.Whisper.MinClipBytes = defaultMinClipBytes
	}
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeIgnore() {
	keywords := make([]string, 0, len(c.Ignore.TitleKeywords))
	seen := make(map[string]struct{}, len(c.Ignore.TitleKeywords))
	for _, keyword := range c.Ignore.TitleKeywords {
		normalized := strings.ToLower(strings.TrimSpace(keyword))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		keywords = append(keywords, normalized)
	}
	c.Ignore.TitleKeywords = keywords
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
