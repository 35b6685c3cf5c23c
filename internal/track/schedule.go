package track

import "math"

// Schedule computes deterministic sample offsets for a track.
type Schedule struct {
	// SampleSeconds is the duration of each short sample.
	SampleSeconds float64
	// Positions are ascending fractions of the track duration where the
	// short samples start.
	Positions []float64
	// Extended window parameters for the fallback analysis.
	ExtendedStartPercent    float64
	ExtendedDurationPercent float64
	ExtendedMaxSeconds      float64
}

// SampleStarts returns the start offset for each short sample. When the
// duration is unknown or no longer than one sample, every sample starts at
// zero; re-sampling the same short clip is acceptable.
func (s Schedule) SampleStarts(duration float64) []float64 {
	starts := make([]float64, len(s.Positions))
	if duration <= s.SampleSeconds {
		return starts
	}
	for i, position := range s.Positions {
		start := math.Floor(duration * position)
		if start+s.SampleSeconds > duration {
			start = math.Max(0, math.Floor(duration-s.SampleSeconds))
		}
		starts[i] = start
	}
	return starts
}

// Extended returns the start offset and length of the fallback window. An
// unknown duration yields a window of the maximum length from the start of
// the track.
func (s Schedule) Extended(duration float64) (start, length float64) {
	if duration <= 0 {
		return 0, s.ExtendedMaxSeconds
	}
	start = math.Floor(duration * s.ExtendedStartPercent)
	length = math.Min(math.Floor(duration*s.ExtendedDurationPercent), s.ExtendedMaxSeconds)
	return start, length
}
