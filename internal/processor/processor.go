package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"langprobe/internal/config"
	"langprobe/internal/detect"
	"langprobe/internal/logging"
	"langprobe/internal/media/ffprobe"
	"langprobe/internal/media/pcm"
	"langprobe/internal/store"
	"langprobe/internal/track"
	"langprobe/internal/vad"
	"langprobe/internal/whisper"
	"langprobe/internal/workspace"
)

// ErrNoAudioTracks marks a container without any audio streams. The run has
// no result; it is not a per-track failure.
var ErrNoAudioTracks = errors.New("no audio tracks found")

// Inspector probes container metadata for a media file.
type Inspector func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// SourceFactory binds a clip source to one media file.
type SourceFactory func(path string) track.ClipSource

// Cache persists run reports between invocations.
type Cache interface {
	Get(ctx context.Context, key store.Key) ([]byte, bool, error)
	Put(ctx context.Context, key store.Key, report []byte) error
	Close() error
}

// Options tunes a processor beyond the configuration file.
type Options struct {
	// SkipCache bypasses the verdict cache for both reads and writes.
	SkipCache bool
	// Debug retains the run workspace with every staged clip and enables
	// transcription of surviving samples.
	Debug bool
}

// Processor analyzes every audio track of a media file and assembles the
// run report.
type Processor struct {
	cfg    *config.Config
	logger *slog.Logger

	inspect     Inspector
	newSource   SourceFactory
	voice       track.VoiceFilter
	classifier  track.LanguageClassifier
	transcriber track.Transcriber
	cache       Cache
	ws          *workspace.Workspace
}

// New wires a processor from the configuration: the run workspace, the VAD
// filter, the whisper model handle, and the verdict cache. A missing binary
// or model file fails here, before any media file is touched.
func New(cfg *config.Config, logger *slog.Logger, opts Options) (*Processor, error) {
	if cfg == nil {
		return nil, errors.New("processor: nil config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	ws, err := workspace.New(cfg.Paths.TempDir, opts.Debug, logger)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	voice, err := vad.New(cfg.VAD.Aggressiveness, cfg.VAD.FrameMs, cfg.VAD.MinVoicedPercent)
	if err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("initialize voice filter: %w", err)
	}

	model, err := whisper.LoadCLI(whisper.Options{
		Binary:       cfg.Tools.Whisper,
		ModelPath:    cfg.ModelPath(),
		Threads:      cfg.Whisper.Threads,
		MinClipBytes: cfg.Whisper.MinClipBytes,
		WorkDir:      ws.Dir(),
		KeepFiles:    ws.Keep(),
		Logger:       logger,
	})
	if err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("load whisper model: %w", err)
	}

	transcriber := newTranscriber(model, cfg, opts, logger)

	var cache Cache
	if cfg.Cache.Enabled && !opts.SkipCache {
		opened, err := store.Open(cfg.Cache.Path)
		if err != nil {
			_ = ws.Close()
			return nil, fmt.Errorf("open verdict cache: %w", err)
		}
		cache = opened
	}

	extractor := pcm.Extractor{Binary: cfg.Tools.FFmpeg}
	return &Processor{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "processor"),

		inspect: ffprobe.Inspect,
		newSource: func(path string) track.ClipSource {
			return fileSource{extractor: extractor, path: path}
		},
		voice:       voice,
		classifier:  detect.NewClassifier(model, logger),
		transcriber: transcriber,
		cache:       cache,
		ws:          ws,
	}, nil
}

// newTranscriber returns the debug transcription stage, or nil when it is
// disabled. Transcription costs a full whisper pass per surviving sample, so
// it runs only in debug mode, and even then can be switched off in the
// configuration.
func newTranscriber(model whisper.Model, cfg *config.Config, opts Options, logger *slog.Logger) track.Transcriber {
	if !opts.Debug || !cfg.Whisper.Transcribe {
		return nil
	}
	return detect.NewTranscriber(model, cfg.Repetition.ConsecutiveRatio, cfg.Repetition.DominantRatio, logger)
}

// NewWithDependencies builds a processor around injected components. Used by
// tests; New is the production path.
func NewWithDependencies(cfg *config.Config, logger *slog.Logger, inspect Inspector, newSource SourceFactory, voice track.VoiceFilter, classifier track.LanguageClassifier, transcriber track.Transcriber, cache Cache) *Processor {
	return &Processor{
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "processor"),
		inspect:     inspect,
		newSource:   newSource,
		voice:       voice,
		classifier:  classifier,
		transcriber: transcriber,
		cache:       cache,
	}
}

// Close releases the verdict cache and the run workspace.
func (p *Processor) Close() error {
	var errs []error
	if p.cache != nil {
		if err := p.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close verdict cache: %w", err))
		}
	}
	if p.ws != nil {
		if err := p.ws.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close workspace: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Process analyzes every audio track of the file and returns the run report.
// A fresh result replaces any cached verdict for the same file state.
func (p *Processor) Process(ctx context.Context, path string) (*Report, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(expanded)
	if err != nil {
		return nil, fmt.Errorf("stat media file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("media file %q is a directory", expanded)
	}

	key := store.KeyFor(expanded, info, p.cfg.Whisper.Model)
	if cached := p.cachedReport(ctx, key); cached != nil {
		p.logger.Info("verdict served from cache", logging.String(logging.FieldMedia, expanded))
		return cached, nil
	}

	probe, err := p.inspect(ctx, p.cfg.Tools.FFprobe, expanded)
	if err != nil {
		return nil, fmt.Errorf("inspect media file: %w", err)
	}

	tracks := probe.AudioTracks(p.cfg.Ignore.TitleKeywords)
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%q: %w", expanded, ErrNoAudioTracks)
	}

	ctx = logging.WithMedia(ctx, expanded)
	if p.ws != nil {
		ctx = logging.WithRunID(ctx, p.ws.Name())
	}
	logger := logging.WithContext(ctx, p.logger)

	duration := probe.DurationSeconds()
	logger.Info("analyzing media file",
		logging.Int("audio_tracks", len(tracks)),
		logging.Float64("duration_seconds", duration))

	analyzer := &track.Analyzer{
		Source:        p.newSource(expanded),
		Voice:         p.voice,
		Classifier:    p.classifier,
		Transcriber:   p.transcriber,
		Schedule:      p.schedule(),
		MinConfidence: p.cfg.Analysis.MinConfidence,
		Workers:       p.cfg.Analysis.SampleWorkers,
		Logger:        p.logger,
	}

	report := &Report{
		File:            expanded,
		SizeBytes:       info.Size(),
		DurationSeconds: duration,
		Model:           p.cfg.Whisper.Model,
		GeneratedAt:     time.Now().UTC(),
		Tracks:          make([]track.Result, 0, len(tracks)),
	}
	for _, tr := range tracks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Tracks = append(report.Tracks, analyzer.Analyze(ctx, tr, duration))
	}

	p.storeReport(ctx, key, report)
	return report, nil
}

func (p *Processor) schedule() track.Schedule {
	return track.Schedule{
		SampleSeconds:           p.cfg.Analysis.SampleSeconds,
		Positions:               p.cfg.Analysis.SamplePositions,
		ExtendedStartPercent:    p.cfg.Analysis.ExtendedStartPercent,
		ExtendedDurationPercent: p.cfg.Analysis.ExtendedDurationPercent,
		ExtendedMaxSeconds:      p.cfg.Analysis.ExtendedMaxSeconds,
	}
}

// cachedReport returns the cached report for the key, or nil when the cache
// is disabled, missing the key, or unreadable. Cache trouble never fails a
// run.
func (p *Processor) cachedReport(ctx context.Context, key store.Key) *Report {
	if p.cache == nil {
		return nil
	}
	payload, found, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logger.Warn("verdict cache read failed", logging.Error(err))
		return nil
	}
	if !found {
		return nil
	}
	var report Report
	if err := json.Unmarshal(payload, &report); err != nil {
		p.logger.Warn("discarding unreadable cached verdict", logging.Error(err))
		return nil
	}
	report.Cached = true
	return &report
}

func (p *Processor) storeReport(ctx context.Context, key store.Key, report *Report) {
	if p.cache == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		p.logger.Warn("verdict cache encode failed", logging.Error(err))
		return
	}
	if err := p.cache.Put(ctx, key, payload); err != nil {
		p.logger.Warn("verdict cache write failed", logging.Error(err))
	}
}

// fileSource adapts the ffmpeg extractor to one media file.
type fileSource struct {
	extractor pcm.Extractor
	path      string
}

func (s fileSource) Clip(ctx context.Context, audioIndex int, start, duration float64) ([]byte, error) {
	return s.extractor.Clip(ctx, s.path, audioIndex, start, duration)
}
