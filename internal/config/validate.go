package config

import (
	"errors"
	"fmt"
	"sort"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateVAD(); err != nil {
		return err
	}
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateRepetition(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	a := c.Analysis
	if a.SampleCount <= 0 {
		return errors.New("analysis.sample_count must be positive")
	}
	if a.SampleSeconds <= 0 {
		return errors.New("analysis.sample_seconds must be positive")
	}
	if len(a.SamplePositions) != a.SampleCount {
		return fmt.Errorf("analysis.sample_positions has %d entries, expected %d", len(a.SamplePositions), a.SampleCount)
	}
	for i, pos := range a.SamplePositions {
		if pos <= 0 || pos >= 1 {
			return fmt.Errorf("analysis.sample_positions[%d] must be between 0 and 1 exclusive, got %v", i, pos)
		}
	}
	if !sort.Float64sAreSorted(a.SamplePositions) {
		return errors.New("analysis.sample_positions must be in ascending order")
	}
	if a.MinConfidence <= 0 || a.MinConfidence > 1 {
		return errors.New("analysis.min_confidence must be between 0 and 1")
	}
	if a.ExtendedStartPercent < 0 || a.ExtendedStartPercent >= 1 {
		return errors.New("analysis.extended_start_percent must be between 0 and 1")
	}
	if a.ExtendedDurationPercent <= 0 || a.ExtendedDurationPercent > 1 {
		return errors.New("analysis.extended_duration_percent must be between 0 and 1")
	}
	if a.ExtendedMaxSeconds <= 0 {
		return errors.New("analysis.extended_max_seconds must be positive")
	}
	return nil
}

func (c *Config) validateVAD() error {
	if c.VAD.Aggressiveness < 0 || c.VAD.Aggressiveness > 3 {
		return errors.New("vad.aggressiveness must be between 0 and 3")
	}
	switch c.VAD.FrameMs {
	case 10, 20, 30:
	default:
		return errors.New("vad.frame_ms must be 10, 20, or 30")
	}
	if c.VAD.MinVoicedPercent < 0 || c.VAD.MinVoicedPercent > 100 {
		return errors.New("vad.min_voiced_percent must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if c.Whisper.Model == "" {
		return errors.New("whisper.model must be set")
	}
	if c.Whisper.MinClipBytes <= 0 {
		return errors.New("whisper.min_clip_bytes must be positive")
	}
	return nil
}

func (c *Config) validateRepetition() error {
	if c.Repetition.ConsecutiveRatio <= 0 || c.Repetition.ConsecutiveRatio > 1 {
		return errors.New("repetition.consecutive_ratio must be between 0 and 1")
	}
	if c.Repetition.DominantRatio <= 0 || c.Repetition.DominantRatio > 1 {
		return errors.New("repetition.dominant_ratio must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.FFmpeg == "" {
		return errors.New("tools.ffmpeg must be set")
	}
	if c.Tools.FFprobe == "" {
		return errors.New("tools.ffprobe must be set")
	}
	if c.Tools.Whisper == "" {
		return errors.New("tools.whisper must be set")
	}
	return nil
}
