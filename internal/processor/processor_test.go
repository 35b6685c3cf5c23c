package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"langprobe/internal/config"
	"langprobe/internal/media/ffprobe"
	"langprobe/internal/store"
	"langprobe/internal/track"
	"langprobe/internal/vad"
	"langprobe/internal/whisper"
)

const probeJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 6,
     "tags": {"language": "eng", "title": "Surround 5.1"}},
    {"index": 2, "codec_name": "ac3", "codec_type": "audio", "channels": 2},
    {"index": 3, "codec_name": "aac", "codec_type": "audio", "channels": 2,
     "tags": {"language": "eng", "title": "Director Commentary"}}
  ],
  "format": {"filename": "movie.mkv", "nb_streams": 4, "duration": "5400.0", "size": "1000000"}
}`

const videoOnlyJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080}
  ],
  "format": {"filename": "movie.mkv", "nb_streams": 1, "duration": "5400.0"}
}`

type countingInspector struct {
	payload string
	calls   int
}

func (c *countingInspector) inspect(_ context.Context, _, _ string) (ffprobe.Result, error) {
	c.calls++
	return ffprobe.Parse([]byte(c.payload))
}

// markerSource hands each audio track a one-byte clip carrying its index so
// the fake classifier can answer per track.
type markerSource struct{}

func (s markerSource) Clip(_ context.Context, audioIndex int, _, _ float64) ([]byte, error) {
	return []byte{byte(audioIndex)}, nil
}

type passthroughVoice struct{}

func (passthroughVoice) Apply(clip []byte) vad.Result {
	return vad.Result{Voiced: clip, VoicedPercent: 100, Accepted: true}
}

type markerClassifier struct {
	byMarker map[byte]whisper.Detection
}

func (c markerClassifier) Classify(_ context.Context, clip []byte) (whisper.Detection, error) {
	detection, ok := c.byMarker[clip[0]]
	if !ok {
		return whisper.Detection{}, errors.New("no detection for marker")
	}
	return detection, nil
}

type memCache struct {
	entries map[store.Key][]byte
	puts    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[store.Key][]byte)}
}

func (c *memCache) Get(_ context.Context, key store.Key) ([]byte, bool, error) {
	payload, ok := c.entries[key]
	return payload, ok, nil
}

func (c *memCache) Put(_ context.Context, key store.Key, report []byte) error {
	c.puts++
	c.entries[key] = append([]byte(nil), report...)
	return nil
}

func (c *memCache) Close() error { return nil }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Analysis.SamplePositions = []float64{0.25, 0.5}
	cfg.Analysis.SampleCount = 2
	cfg.Ignore.TitleKeywords = []string{"commentary"}
	return &cfg
}

func testMediaFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movie.mkv")
	if err := os.WriteFile(path, []byte("mkv"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func newTestProcessor(cfg *config.Config, inspector *countingInspector, cache Cache) *Processor {
	classifier := markerClassifier{byMarker: map[byte]whisper.Detection{
		0: {Language: "en", Confidence: 0.9},
		1: {Language: "es", Confidence: 0.8},
	}}
	return NewWithDependencies(cfg, nil, inspector.inspect,
		func(string) track.ClipSource { return markerSource{} },
		passthroughVoice{}, classifier, nil, cache)
}

func TestProcessAnalyzesAllTracks(t *testing.T) {
	inspector := &countingInspector{payload: probeJSON}
	p := newTestProcessor(testConfig(), inspector, nil)

	report, err := p.Process(context.Background(), testMediaFile(t))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if report.DurationSeconds != 5400 {
		t.Errorf("DurationSeconds = %v, want 5400", report.DurationSeconds)
	}
	if len(report.Tracks) != 3 {
		t.Fatalf("len(Tracks) = %d, want 3", len(report.Tracks))
	}

	confirmed := report.Tracks[0]
	if confirmed.NeedsReview {
		t.Error("track 0: tagged eng confirmed by en detection should not need review")
	}
	if confirmed.DetectedLanguage != "eng" {
		t.Errorf("track 0: DetectedLanguage = %q, want eng", confirmed.DetectedLanguage)
	}

	untagged := report.Tracks[1]
	if untagged.DetectedLanguage != "es" {
		t.Errorf("track 1: DetectedLanguage = %q, want es", untagged.DetectedLanguage)
	}
	if !untagged.NeedsReview {
		t.Error("track 1: untagged track with detection should need review")
	}

	ignored := report.Tracks[2]
	if !ignored.ShouldIgnore {
		t.Error("track 2: commentary title should be ignored")
	}
	if ignored.IgnoreReason == "" {
		t.Error("track 2: missing ignore reason")
	}

	if !report.NeedsReview() {
		t.Error("report.NeedsReview() = false with a flagged track")
	}
}

func TestProcessNoAudioTracks(t *testing.T) {
	inspector := &countingInspector{payload: videoOnlyJSON}
	p := newTestProcessor(testConfig(), inspector, nil)

	_, err := p.Process(context.Background(), testMediaFile(t))
	if !errors.Is(err, ErrNoAudioTracks) {
		t.Fatalf("Process error = %v, want ErrNoAudioTracks", err)
	}
}

func TestProcessServesCachedVerdict(t *testing.T) {
	inspector := &countingInspector{payload: probeJSON}
	cache := newMemCache()
	p := newTestProcessor(testConfig(), inspector, cache)
	path := testMediaFile(t)
	ctx := context.Background()

	first, err := p.Process(ctx, path)
	if err != nil {
		t.Fatalf("Process (fresh): %v", err)
	}
	if first.Cached {
		t.Error("fresh report marked as cached")
	}
	if cache.puts != 1 {
		t.Errorf("cache puts = %d, want 1", cache.puts)
	}

	second, err := p.Process(ctx, path)
	if err != nil {
		t.Fatalf("Process (cached): %v", err)
	}
	if !second.Cached {
		t.Error("second report not served from cache")
	}
	if inspector.calls != 1 {
		t.Errorf("inspector calls = %d, want 1", inspector.calls)
	}
	if len(second.Tracks) != len(first.Tracks) {
		t.Errorf("cached tracks = %d, want %d", len(second.Tracks), len(first.Tracks))
	}
}

func TestProcessReanalyzesChangedFile(t *testing.T) {
	inspector := &countingInspector{payload: probeJSON}
	cache := newMemCache()
	p := newTestProcessor(testConfig(), inspector, cache)
	path := testMediaFile(t)
	ctx := context.Background()

	if _, err := p.Process(ctx, path); err != nil {
		t.Fatalf("Process (fresh): %v", err)
	}

	// Growing the file invalidates the size component of the cache key.
	if err := os.WriteFile(path, []byte("mkv-grown"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	report, err := p.Process(ctx, path)
	if err != nil {
		t.Fatalf("Process (changed): %v", err)
	}
	if report.Cached {
		t.Error("changed file served a stale cached verdict")
	}
	if inspector.calls != 2 {
		t.Errorf("inspector calls = %d, want 2", inspector.calls)
	}
}

func TestTranscriberDebugGated(t *testing.T) {
	cfg := testConfig()

	if tr := newTranscriber(nil, cfg, Options{}, nil); tr != nil {
		t.Error("transcriber wired in a non-debug run")
	}
	if tr := newTranscriber(nil, cfg, Options{Debug: true}, nil); tr == nil {
		t.Error("transcriber missing in a debug run")
	}

	cfg.Whisper.Transcribe = false
	if tr := newTranscriber(nil, cfg, Options{Debug: true}, nil); tr != nil {
		t.Error("transcriber wired with transcribe disabled")
	}
}

func TestProcessMissingFile(t *testing.T) {
	inspector := &countingInspector{payload: probeJSON}
	p := newTestProcessor(testConfig(), inspector, nil)

	_, err := p.Process(context.Background(), filepath.Join(t.TempDir(), "missing.mkv"))
	if err == nil {
		t.Fatal("Process succeeded on a missing file")
	}
	if inspector.calls != 0 {
		t.Errorf("inspector calls = %d, want 0", inspector.calls)
	}
}
