package detect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"langprobe/internal/logging"
	"langprobe/internal/media/pcm"
	"langprobe/internal/whisper"
)

const (
	// WindowSeconds is the native whisper language detection window.
	WindowSeconds = 30
	// MaxWindows caps the windows inspected per clip.
	MaxWindows = 3
)

var windowBytes = pcm.Bytes(WindowSeconds)

// Classifier aggregates per-window language votes into one identification.
type Classifier struct {
	model  whisper.Model
	logger *slog.Logger
}

// NewClassifier builds a Classifier on top of the given model.
func NewClassifier(model whisper.Model, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Classifier{model: model, logger: logging.NewComponentLogger(logger, "classifier")}
}

// Classify identifies the dominant language of the clip. The clip is split
// into full windows (at most MaxWindows); a clip shorter than one window is
// zero-padded to window length.
func (c *Classifier) Classify(ctx context.Context, clip []byte) (whisper.Detection, error) {
	if len(clip) == 0 {
		return whisper.Detection{}, errors.New("classify: empty clip")
	}

	windows := len(clip) / windowBytes
	if windows < 1 {
		windows = 1
	}
	if windows > MaxWindows {
		windows = MaxWindows
	}

	votes := make(map[string][]float64)
	for i := 0; i < windows; i++ {
		window := windowAt(clip, i)
		detection, err := c.model.DetectLanguage(ctx, window)
		if err != nil {
			return whisper.Detection{}, fmt.Errorf("classify window %d: %w", i+1, err)
		}
		votes[detection.Language] = append(votes[detection.Language], detection.Confidence)
		c.logger.Debug("window vote",
			logging.Int("window", i+1),
			logging.String("language", detection.Language),
			logging.Float64("confidence", detection.Confidence))
	}

	winner, confidence := tallyVotes(votes)
	return whisper.Detection{Language: winner, Confidence: confidence}, nil
}

// windowAt returns the i-th window, zero-padded to exactly one window.
func windowAt(clip []byte, i int) []byte {
	start := i * windowBytes
	end := start + windowBytes
	if end <= len(clip) {
		return clip[start:end]
	}
	window := make([]byte, windowBytes)
	if start < len(clip) {
		copy(window, clip[start:])
	}
	return window
}

// tallyVotes scores each language as mean confidence times vote count plus
// best confidence; ties break lexicographically so results are stable. The
// winner reports its single best confidence.
func tallyVotes(votes map[string][]float64) (string, float64) {
	languages := make([]string, 0, len(votes))
	for lang := range votes {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	var winner string
	var bestScore, bestConfidence float64
	for _, lang := range languages {
		confidences := votes[lang]
		var sum, max float64
		for _, conf := range confidences {
			sum += conf
			if conf > max {
				max = conf
			}
		}
		mean := sum / float64(len(confidences))
		score := mean*float64(len(confidences)) + max
		if winner == "" || score > bestScore {
			winner = lang
			bestScore = score
			bestConfidence = max
		}
	}
	return winner, bestConfidence
}
