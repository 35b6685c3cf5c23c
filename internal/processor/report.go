package processor

import (
	"time"

	"langprobe/internal/track"
)

// Report is the run-level result for one media file.
type Report struct {
	File            string         `json:"file"`
	SizeBytes       int64          `json:"size_bytes"`
	DurationSeconds float64        `json:"duration_seconds"`
	Model           string         `json:"model"`
	GeneratedAt     time.Time      `json:"generated_at"`
	Tracks          []track.Result `json:"tracks"`

	// Cached marks a report served from the verdict cache.
	Cached bool `json:"-"`
}

// NeedsReview reports whether any analyzed track was flagged for review.
func (r *Report) NeedsReview() bool {
	for _, tr := range r.Tracks {
		if tr.NeedsReview {
			return true
		}
	}
	return false
}
