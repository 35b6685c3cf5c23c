package track

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"langprobe/internal/language"
	"langprobe/internal/logging"
	"langprobe/internal/media/ffprobe"
	"langprobe/internal/vad"
	"langprobe/internal/whisper"
)

// ClipSource extracts mono 16 kHz PCM clips for one media file.
type ClipSource interface {
	Clip(ctx context.Context, audioIndex int, start, duration float64) ([]byte, error)
}

// VoiceFilter gates clips on voice activity.
type VoiceFilter interface {
	Apply(clip []byte) vad.Result
}

// LanguageClassifier identifies the dominant language of a filtered clip.
type LanguageClassifier interface {
	Classify(ctx context.Context, clip []byte) (whisper.Detection, error)
}

// Transcriber produces screened text for a filtered clip.
type Transcriber interface {
	Transcribe(ctx context.Context, clip []byte, lang string) string
}

// Analyzer runs the full per-track pipeline.
type Analyzer struct {
	Source     ClipSource
	Voice      VoiceFilter
	Classifier LanguageClassifier
	// Transcriber is optional; nil skips transcription entirely.
	Transcriber Transcriber

	Schedule      Schedule
	MinConfidence float64
	// Workers bounds concurrent sample extraction and filtering.
	// Zero means min(sample count, GOMAXPROCS).
	Workers int
	Logger  *slog.Logger
}

// Analyze produces the verdict for one audio track. Per-sample failures are
// absorbed into the statistics; only the caller's context can abort the run.
func (a *Analyzer) Analyze(ctx context.Context, tr ffprobe.Track, duration float64) Result {
	logger := logging.WithTrack(logging.WithContext(ctx, a.logger()), tr.ID)

	result := Result{
		ID:               tr.ID,
		StreamOrder:      tr.StreamOrder,
		Codec:            tr.Codec,
		Channels:         tr.Channels,
		Title:            tr.Title,
		OriginalLanguage: tr.Language,
		ShouldIgnore:     tr.ShouldIgnore,
	}

	if tr.ShouldIgnore {
		result.IgnoreReason = fmt.Sprintf("title contains an ignored keyword: %q", tr.Title)
		logger.Info("track skipped", logging.String("title", tr.Title))
		return result
	}

	hasAssigned := tr.Language != "" && tr.Language != "und"
	if hasAssigned {
		result.OriginalLanguageISO = language.ToISO3(tr.Language)
		logger.Info("verifying assigned language", logging.String("assigned", tr.Language))
	} else {
		logger.Info("no assigned language, detecting")
	}

	stats := Stats{TotalSamplesAttempted: len(a.Schedule.Positions)}
	detections := a.collectSamples(ctx, tr.ID, duration, logger)
	stats.ValidSamples = len(detections)

	var outcome Outcome
	switch {
	case len(detections) == 0:
		logger.Info("no valid samples, falling back to extended analysis")
		stats.Method = MethodExtended
		outcome = a.extendedAnalysis(ctx, tr.ID, duration, &stats, logger)
	case hasAssigned:
		outcome = a.decideAssigned(ctx, tr.ID, duration, tr.Language, detections, &stats, logger)
	default:
		outcome = a.decideUnassigned(ctx, tr.ID, duration, detections, &stats, logger)
	}

	result.Stats = stats
	a.applyVerdict(&result, tr.Language, hasAssigned, outcome, logger)
	return result
}

func (a *Analyzer) applyVerdict(result *Result, assigned string, hasAssigned bool, outcome Outcome, logger *slog.Logger) {
	if outcome.Detected {
		d := outcome.Detection
		confidence := d.Confidence
		result.DetectedLanguage = d.Language
		result.DetectedLanguageISO = language.ToISO3(d.Language)
		result.Confidence = &confidence
		result.Transcription = d.Transcription

		switch {
		case !hasAssigned:
			result.NeedsReview = true
			logger.Info("language detected for untagged track",
				logging.String("language", d.Language),
				logging.Float64("confidence", d.Confidence))
		case language.Equivalent(assigned, d.Language):
			result.NeedsReview = false
			logger.Info("assigned language confirmed",
				logging.String("language", d.Language),
				logging.Float64("confidence", d.Confidence))
		default:
			result.NeedsReview = true
			logger.Warn("assigned language disagrees with detection",
				logging.String("assigned", assigned),
				logging.String("detected", d.Language),
				logging.Float64("confidence", d.Confidence))
		}
		return
	}

	if language.NoLinguisticContent(assigned) {
		// Tagged as carrying no language and nothing was detected: consistent.
		result.NeedsReview = false
		logger.Info("no language detected, matching no-content tag",
			logging.String("assigned", assigned))
		return
	}
	result.NeedsReview = true
	logger.Warn("no language detected", logging.String("reason", outcome.Reason))
}

// collectSamples runs extraction, voice filtering, and classification for
// every scheduled sample, bounded by the worker limit. Results keep sample
// order so verdicts do not depend on goroutine scheduling.
func (a *Analyzer) collectSamples(ctx context.Context, audioIndex int, duration float64, logger *slog.Logger) []Detection {
	starts := a.Schedule.SampleStarts(duration)
	outcomes := make([]Outcome, len(starts))

	workers := a.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(starts) {
		workers = len(starts)
	}
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, start := range starts {
		wg.Add(1)
		go func(i int, start float64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i] = a.processSample(ctx, audioIndex, i+1, start, logger)
		}(i, start)
	}
	wg.Wait()

	detections := make([]Detection, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Detected {
			detections = append(detections, outcome.Detection)
		}
	}
	return detections
}

func (a *Analyzer) processSample(ctx context.Context, audioIndex, sampleNum int, start float64, logger *slog.Logger) Outcome {
	logger = logging.WithSample(logger, sampleNum)

	clip, err := a.Source.Clip(ctx, audioIndex, start, a.Schedule.SampleSeconds)
	if err != nil {
		logger.Warn("sample extraction failed", logging.Error(err))
		return NotDetected(ReasonExtractionFailed)
	}

	filtered := a.Voice.Apply(clip)
	if !filtered.Accepted {
		logger.Info("sample rejected for lack of voice",
			logging.Float64("voiced_percent", filtered.VoicedPercent))
		return NotDetected(ReasonInsufficientVoice)
	}

	detection, err := a.Classifier.Classify(ctx, filtered.Voiced)
	if err != nil {
		logger.Warn("sample classification failed", logging.Error(err))
		return NotDetected(ReasonClassificationFailed)
	}
	if detection.Confidence < a.MinConfidence {
		logger.Info("sample below confidence threshold",
			logging.String("language", detection.Language),
			logging.Float64("confidence", detection.Confidence))
		return NotDetected(ReasonLowConfidence)
	}

	transcription := ""
	if a.Transcriber != nil {
		transcription = a.Transcriber.Transcribe(ctx, filtered.Voiced, detection.Language)
	}

	logger.Info("sample detection",
		logging.String("language", detection.Language),
		logging.Float64("confidence", detection.Confidence),
		logging.Float64("voiced_percent", filtered.VoicedPercent))
	return DetectedOutcome(Detection{
		Language:      detection.Language,
		Confidence:    detection.Confidence,
		Transcription: transcription,
	})
}

// decideAssigned confirms or refutes the track's assigned language. Samples
// agreeing with the tag at acceptable confidence confirm it; otherwise the
// non-matching votes are skipped entirely and the extended window decides.
func (a *Analyzer) decideAssigned(ctx context.Context, audioIndex int, duration float64, assigned string, detections []Detection, stats *Stats, logger *slog.Logger) Outcome {
	var best *Detection
	matches := 0
	for i := range detections {
		d := &detections[i]
		if !language.Equivalent(d.Language, assigned) || d.Confidence < a.MinConfidence {
			continue
		}
		matches++
		if best == nil || d.Confidence > best.Confidence {
			best = d
		}
	}

	if best != nil {
		logger.Info("samples agree with assigned language",
			logging.Int("matches", matches),
			logging.Float64("confidence", best.Confidence))
		stats.Method = MethodSampling
		return DetectedOutcome(Detection{
			Language:      assigned,
			Confidence:    best.Confidence,
			Transcription: best.Transcription,
		})
	}

	logger.Warn("no sample agrees with assigned language", logging.String("assigned", assigned))
	stats.Method = MethodExtended
	return a.extendedAnalysis(ctx, audioIndex, duration, stats, logger)
}

// decideUnassigned votes across the surviving detections. A winner below the
// confidence threshold triggers the extended window; a successful extended
// result overrides the sampling winner (hybrid), a failed one keeps it.
func (a *Analyzer) decideUnassigned(ctx context.Context, audioIndex int, duration float64, detections []Detection, stats *Stats, logger *slog.Logger) Outcome {
	winner := voteOnDetections(detections)
	logger.Info("sampling vote winner",
		logging.String("language", winner.Language),
		logging.Float64("confidence", winner.Confidence))

	if winner.Confidence >= a.MinConfidence {
		stats.Method = MethodSampling
		return DetectedOutcome(winner)
	}

	logger.Info("winner below confidence threshold, trying extended analysis")
	extended := a.extendedAnalysis(ctx, audioIndex, duration, stats, logger)
	if !extended.Detected {
		logger.Info("extended analysis inconclusive, keeping sampling winner")
		stats.Method = MethodSampling
		return DetectedOutcome(winner)
	}

	stats.Method = MethodHybrid
	if extended.Detection.Transcription == "" {
		extended.Detection.Transcription = winner.Transcription
	}
	return extended
}

// voteOnDetections scores each language as count*2 + meanConfidence*3 +
// maxConfidence and returns the winner with its best single confidence and
// the transcription from that best detection. Equal scores break
// lexicographically on the language code.
func voteOnDetections(detections []Detection) Detection {
	type tally struct {
		count int
		sum   float64
		max   float64
	}
	tallies := make(map[string]*tally)
	for _, d := range detections {
		t := tallies[d.Language]
		if t == nil {
			t = &tally{}
			tallies[d.Language] = t
		}
		t.count++
		t.sum += d.Confidence
		if d.Confidence > t.max {
			t.max = d.Confidence
		}
	}

	languages := make([]string, 0, len(tallies))
	for lang := range tallies {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	var winner string
	var bestScore float64
	for _, lang := range languages {
		t := tallies[lang]
		score := float64(t.count)*2 + t.sum/float64(t.count)*3 + t.max
		if winner == "" || score > bestScore {
			winner = lang
			bestScore = score
		}
	}

	best := tallies[winner]
	for _, d := range detections {
		if d.Language == winner && d.Confidence == best.max {
			return d
		}
	}
	// Unreachable: the winner's max confidence came from some detection.
	return Detection{Language: winner, Confidence: best.max}
}

// extendedAnalysis runs the single long fallback window. The attempt is
// recorded in the statistics even when extraction or filtering rejects it.
func (a *Analyzer) extendedAnalysis(ctx context.Context, audioIndex int, duration float64, stats *Stats, logger *slog.Logger) Outcome {
	stats.ExtendedAnalysisPerformed = true

	start, length := a.Schedule.Extended(duration)
	logger.Info("extended analysis",
		logging.Float64("start", start),
		logging.Float64("length", length))

	clip, err := a.Source.Clip(ctx, audioIndex, start, length)
	if err != nil {
		logger.Warn("extended extraction failed", logging.Error(err))
		return NotDetected(ReasonExtractionFailed)
	}

	filtered := a.Voice.Apply(clip)
	if !filtered.Accepted {
		logger.Info("extended window rejected for lack of voice",
			logging.Float64("voiced_percent", filtered.VoicedPercent))
		return NotDetected(ReasonInsufficientVoice)
	}

	detection, err := a.Classifier.Classify(ctx, filtered.Voiced)
	if err != nil {
		logger.Warn("extended classification failed", logging.Error(err))
		return NotDetected(ReasonClassificationFailed)
	}

	transcription := ""
	if a.Transcriber != nil {
		transcription = a.Transcriber.Transcribe(ctx, filtered.Voiced, detection.Language)
	}

	if detection.Confidence < a.MinConfidence {
		logger.Info("extended detection below confidence threshold",
			logging.String("language", detection.Language),
			logging.Float64("confidence", detection.Confidence))
		return NotDetected(ReasonLowConfidence)
	}

	logger.Info("extended analysis succeeded",
		logging.String("language", detection.Language),
		logging.Float64("confidence", detection.Confidence))
	return DetectedOutcome(Detection{
		Language:      detection.Language,
		Confidence:    detection.Confidence,
		Transcription: transcription,
	})
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return logging.NewComponentLogger(nil, "analyzer")
	}
	return logging.NewComponentLogger(a.Logger, "analyzer")
}
