package logging

import "log/slog"

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldMedia is the standardized structured logging key for the media file path.
	FieldMedia = "media"
	// FieldTrack is the standardized structured logging key for audio track identifiers.
	FieldTrack = "track"
	// FieldSample is the standardized structured logging key for 1-based sample numbers.
	FieldSample = "sample"
	// FieldRunID is the standardized structured logging key for run identifiers.
	FieldRunID = "run_id"
)

// WithTrack returns a logger carrying the track identifier.
func WithTrack(logger *slog.Logger, trackID int) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(Int(FieldTrack, trackID))
}

// WithSample returns a logger carrying the sample number.
func WithSample(logger *slog.Logger, sample int) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(Int(FieldSample, sample))
}
