package track

// Analysis methods recorded in the result statistics.
const (
	MethodSampling = "sampling"
	MethodExtended = "extended"
	MethodHybrid   = "hybrid"
)

// Reasons a sample or the extended window produced no detection.
const (
	ReasonExtractionFailed     = "extraction_failed"
	ReasonInsufficientVoice    = "insufficient_voice"
	ReasonLowConfidence        = "low_confidence"
	ReasonClassificationFailed = "classification_failed"
)

// Detection is one surviving language identification with its evidence.
type Detection struct {
	Language      string
	Confidence    float64
	Transcription string
}

// Outcome is the tagged result of a detection attempt: either a Detection or
// a reason why nothing was detected.
type Outcome struct {
	Detected  bool
	Detection Detection
	Reason    string
}

// NotDetected builds a negative outcome with the given reason.
func NotDetected(reason string) Outcome {
	return Outcome{Reason: reason}
}

// DetectedOutcome builds a positive outcome.
func DetectedOutcome(d Detection) Outcome {
	return Outcome{Detected: true, Detection: d}
}

// Stats summarizes how a verdict was reached.
type Stats struct {
	ValidSamples              int    `json:"valid_samples"`
	TotalSamplesAttempted     int    `json:"total_samples_attempted"`
	ExtendedAnalysisPerformed bool   `json:"extended_analysis"`
	Method                    string `json:"analysis_method"`
}

// Result is the final immutable per-track record.
type Result struct {
	ID                  int      `json:"id"`
	StreamOrder         int      `json:"stream_order"`
	Codec               string   `json:"codec"`
	Channels            int      `json:"channels"`
	Title               string   `json:"title,omitempty"`
	OriginalLanguage    string   `json:"original_language,omitempty"`
	OriginalLanguageISO string   `json:"original_language_iso,omitempty"`
	DetectedLanguage    string   `json:"detected_language,omitempty"`
	DetectedLanguageISO string   `json:"detected_language_iso,omitempty"`
	Confidence          *float64 `json:"confidence,omitempty"`
	NeedsReview         bool     `json:"needs_review"`
	Transcription       string   `json:"transcription,omitempty"`
	ShouldIgnore        bool     `json:"should_ignore"`
	IgnoreReason        string   `json:"ignore_reason,omitempty"`
	Stats               Stats    `json:"analysis_stats"`
}
