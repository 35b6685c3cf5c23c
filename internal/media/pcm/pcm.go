package pcm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const (
	// SampleRate is the PCM sample rate expected by both VAD and whisper.
	SampleRate = 16000
	// BytesPerSample is the width of one signed 16-bit mono sample.
	BytesPerSample = 2
)

// Extractor pulls PCM clips out of media containers.
type Extractor struct {
	// Binary is the ffmpeg executable. Empty means "ffmpeg" from PATH.
	Binary string
}

// Clip decodes duration seconds of the given audio track starting at start,
// downmixed to mono 16 kHz s16le. audioIndex is the sequential audio stream
// index (ffmpeg -map 0:a:<idx>), not the absolute container stream index.
func (e Extractor) Clip(ctx context.Context, path string, audioIndex int, start, duration float64) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("pcm clip: empty path")
	}
	if audioIndex < 0 {
		return nil, fmt.Errorf("pcm clip: negative audio index %d", audioIndex)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("pcm clip: non-positive duration %v", duration)
	}
	if start < 0 {
		start = 0
	}

	binary := strings.TrimSpace(e.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}

	args := clipArgs(path, audioIndex, start, duration)
	cmd := exec.CommandContext(ctx, binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pcm clip: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	data := stdout.Bytes()
	if len(data) == 0 {
		return nil, errors.New("pcm clip: ffmpeg produced no audio")
	}
	// Trailing odd byte would desync every following 16-bit sample.
	if len(data)%BytesPerSample != 0 {
		data = data[:len(data)-1]
	}
	return data, nil
}

func clipArgs(path string, audioIndex int, start, duration float64) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-fflags", "+genpts",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(duration),
		"-i", path,
		"-map", fmt.Sprintf("0:a:%d", audioIndex),
		"-ac", "1",
		"-ar", strconv.Itoa(SampleRate),
		"-f", "s16le",
		"-",
	}
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

// Bytes returns the PCM byte length of the given duration in seconds.
func Bytes(seconds float64) int {
	return int(seconds * SampleRate * BytesPerSample)
}
