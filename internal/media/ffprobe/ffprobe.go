package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"langprobe/internal/language"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index      int               `json:"index"`
	CodecName  string            `json:"codec_name"`
	CodecType  string            `json:"codec_type"`
	Duration   string            `json:"duration"`
	BitRate    string            `json:"bit_rate"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	SampleRate string            `json:"sample_rate"`
	Channels   int               `json:"channels"`
	Tags       map[string]string `json:"tags"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Track is an audio stream prepared for language analysis.
type Track struct {
	// ID is the sequential audio index used in ffmpeg -map 0:a:<ID>.
	ID int
	// StreamOrder is the absolute stream index inside the container.
	StreamOrder int
	// Language is the assigned language tag, lowercased, empty when absent.
	Language string
	Codec    string
	Channels int
	Title    string
	// ShouldIgnore is set when the title matches an ignore keyword.
	ShouldIgnore bool
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// Parse decodes ffprobe JSON that was produced elsewhere.
func Parse(payload []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			count++
		}
	}
	return count
}

// AudioTracks returns the audio streams in container order, each carrying its
// sequential audio index, assigned language, and title-based ignore decision.
func (r Result) AudioTracks(ignoreKeywords []string) []Track {
	tracks := make([]Track, 0, r.AudioStreamCount())
	audioIndex := 0
	for _, stream := range r.Streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		title := streamTitle(stream.Tags)
		tracks = append(tracks, Track{
			ID:           audioIndex,
			StreamOrder:  stream.Index,
			Language:     language.ExtractFromTags(stream.Tags),
			Codec:        stream.CodecName,
			Channels:     stream.Channels,
			Title:        title,
			ShouldIgnore: titleMatchesKeyword(title, ignoreKeywords),
		})
		audioIndex++
	}
	return tracks
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	duration := parseFloat(r.Format.Duration)
	if math.IsNaN(duration) || duration < 0 {
		return 0
	}
	return duration
}

// SizeBytes returns the reported container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		return 0
	}
	return int64(size)
}

func streamTitle(tags map[string]string) string {
	for _, key := range []string{"title", "TITLE", "Title", "handler_name", "HANDLER_NAME"} {
		if value, ok := tags[key]; ok {
			cleaned := strings.TrimSpace(strings.ReplaceAll(value, "\x00", ""))
			if cleaned != "" {
				return cleaned
			}
		}
	}
	return ""
}

func titleMatchesKeyword(title string, keywords []string) bool {
	if title == "" {
		return false
	}
	lowered := strings.ToLower(title)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
