package ffprobe

import (
	"testing"
)

const sampleJSON = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "h264",
      "codec_type": "video",
      "width": 1920,
      "height": 1080
    },
    {
      "index": 1,
      "codec_name": "dts",
      "codec_type": "audio",
      "channels": 6,
      "tags": {"language": "eng", "title": "Surround 5.1"}
    },
    {
      "index": 2,
      "codec_name": "ac3",
      "codec_type": "audio",
      "channels": 2,
      "tags": {"LANGUAGE": "SPA"}
    },
    {
      "index": 3,
      "codec_name": "aac",
      "codec_type": "audio",
      "channels": 2,
      "tags": {"title": "Director Commentary", "language": "eng"}
    },
    {
      "index": 4,
      "codec_name": "subrip",
      "codec_type": "subtitle",
      "tags": {"language": "eng"}
    }
  ],
  "format": {
    "filename": "movie.mkv",
    "nb_streams": 5,
    "duration": "5400.250000",
    "size": "4294967296"
  }
}`

var ignoreKeywords = []string{"comment", "director", "isolated"}

func TestParseAndFormatAccessors(t *testing.T) {
	result, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := result.DurationSeconds(); got != 5400.25 {
		t.Errorf("DurationSeconds() = %v, want 5400.25", got)
	}
	if got := result.SizeBytes(); got != 4294967296 {
		t.Errorf("SizeBytes() = %d, want 4294967296", got)
	}
	if got := result.AudioStreamCount(); got != 3 {
		t.Errorf("AudioStreamCount() = %d, want 3", got)
	}
}

func TestAudioTracks(t *testing.T) {
	result, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tracks := result.AudioTracks(ignoreKeywords)
	if len(tracks) != 3 {
		t.Fatalf("len(tracks) = %d, want 3", len(tracks))
	}

	first := tracks[0]
	if first.ID != 0 || first.StreamOrder != 1 {
		t.Errorf("first track ID/StreamOrder = %d/%d, want 0/1", first.ID, first.StreamOrder)
	}
	if first.Language != "eng" {
		t.Errorf("first track language = %q, want eng", first.Language)
	}
	if first.Codec != "dts" || first.Channels != 6 {
		t.Errorf("first track codec/channels = %q/%d, want dts/6", first.Codec, first.Channels)
	}
	if first.Title != "Surround 5.1" {
		t.Errorf("first track title = %q, want Surround 5.1", first.Title)
	}
	if first.ShouldIgnore {
		t.Error("first track should not be ignored")
	}

	second := tracks[1]
	if second.ID != 1 || second.StreamOrder != 2 {
		t.Errorf("second track ID/StreamOrder = %d/%d, want 1/2", second.ID, second.StreamOrder)
	}
	if second.Language != "spa" {
		t.Errorf("second track language = %q, want spa (lowercased)", second.Language)
	}

	third := tracks[2]
	if third.ID != 2 {
		t.Errorf("third track ID = %d, want 2", third.ID)
	}
	if !third.ShouldIgnore {
		t.Error("commentary track should be ignored")
	}
}

func TestAudioTracksNoTags(t *testing.T) {
	payload := `{
  "streams": [{"index": 0, "codec_name": "aac", "codec_type": "audio", "channels": 2}],
  "format": {"duration": "10.0"}
}`
	result, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tracks := result.AudioTracks(ignoreKeywords)
	if len(tracks) != 1 {
		t.Fatalf("len(tracks) = %d, want 1", len(tracks))
	}
	if tracks[0].Language != "" {
		t.Errorf("language = %q, want empty", tracks[0].Language)
	}
	if tracks[0].Title != "" {
		t.Errorf("title = %q, want empty", tracks[0].Title)
	}
	if tracks[0].ShouldIgnore {
		t.Error("untitled track should not be ignored")
	}
}

func TestTitleMatchesKeyword(t *testing.T) {
	tests := []struct {
		title    string
		expected bool
	}{
		{"", false},
		{"Main Audio", false},
		{"Director's Commentary", true},
		{"COMENTARIOS del director", true},
		{"Isolated Score", true},
		{"Stereo Mix", false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := titleMatchesKeyword(tt.title, ignoreKeywords); got != tt.expected {
				t.Errorf("titleMatchesKeyword(%q) = %v, want %v", tt.title, got, tt.expected)
			}
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDurationSecondsMissing(t *testing.T) {
	result, err := Parse([]byte(`{"streams": [], "format": {}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := result.DurationSeconds(); got != 0 {
		t.Errorf("DurationSeconds() = %v, want 0", got)
	}
}
