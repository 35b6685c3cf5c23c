package detect

import (
	"context"
	"log/slog"

	"langprobe/internal/logging"
	"langprobe/internal/whisper"
)

// Transcriber produces screened transcriptions: hallucinated or failed
// output becomes an empty string rather than an error, since transcription
// is supporting evidence and never decides a verdict on its own.
type Transcriber struct {
	model            whisper.Model
	consecutiveRatio float64
	dominantRatio    float64
	logger           *slog.Logger
}

// NewTranscriber builds a Transcriber with the given repetition thresholds.
func NewTranscriber(model whisper.Model, consecutiveRatio, dominantRatio float64, logger *slog.Logger) *Transcriber {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Transcriber{
		model:            model,
		consecutiveRatio: consecutiveRatio,
		dominantRatio:    dominantRatio,
		logger:           logging.NewComponentLogger(logger, "transcriber"),
	}
}

// Transcribe converts the clip to text in the given language. Errors and
// repetitive output are logged and reported as an empty transcription.
func (t *Transcriber) Transcribe(ctx context.Context, clip []byte, lang string) string {
	text, err := t.model.Transcribe(ctx, clip, lang)
	if err != nil {
		t.logger.Warn("transcription failed", logging.Error(err))
		return ""
	}
	if text == "" {
		return ""
	}
	if IsRepetitive(text, t.consecutiveRatio, t.dominantRatio) {
		t.logger.Debug("transcription discarded as repetitive",
			logging.String("snippet", snippet(text, 100)))
		return ""
	}
	return text
}

func snippet(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n] + "..."
}
