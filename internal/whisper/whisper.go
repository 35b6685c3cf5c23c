package whisper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"langprobe/internal/logging"
)

// Detection is a single language identification result.
type Detection struct {
	// Language is the two or three letter code whisper reports.
	Language string
	// Confidence is the model probability, 0-1.
	Confidence float64
}

// Model identifies the spoken language of PCM clips and transcribes them.
type Model interface {
	DetectLanguage(ctx context.Context, clip []byte) (Detection, error)
	Transcribe(ctx context.Context, clip []byte, lang string) (string, error)
}

// Options configures the whisper.cpp integration.
type Options struct {
	// Binary is the whisper-cli executable. Bare names resolve via PATH.
	Binary string
	// ModelPath is the ggml model file.
	ModelPath string
	// Threads caps inference threads. 0 lets whisper pick.
	Threads int
	// MinClipBytes skips transcription for clips smaller than this.
	MinClipBytes int
	// WorkDir receives staged WAV files.
	WorkDir string
	// KeepFiles retains staged WAV files for debugging.
	KeepFiles bool
	Logger    *slog.Logger
}

// CLI runs whisper.cpp as an external process.
type CLI struct {
	binary       string
	modelPath    string
	threads      int
	minClipBytes int
	workDir      string
	keepFiles    bool
	logger       *slog.Logger

	// whisper saturates the CPU; one inference at a time.
	mu sync.Mutex
}

// LoadCLI validates the binary and model file and returns a ready CLI.
// A missing binary or model is a fatal setup error, not a per-track failure.
func LoadCLI(opts Options) (*CLI, error) {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = "whisper-cli"
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("whisper binary %q: %w", binary, err)
	}

	modelPath := strings.TrimSpace(opts.ModelPath)
	if modelPath == "" {
		return nil, fmt.Errorf("whisper model path is empty")
	}
	info, err := os.Stat(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper model %q: %w", modelPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("whisper model %q is a directory", modelPath)
	}

	workDir := strings.TrimSpace(opts.WorkDir)
	if workDir == "" {
		workDir = os.TempDir()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &CLI{
		binary:       resolved,
		modelPath:    modelPath,
		threads:      opts.Threads,
		minClipBytes: opts.MinClipBytes,
		workDir:      workDir,
		keepFiles:    opts.KeepFiles,
		logger:       logging.NewComponentLogger(logger, "whisper"),
	}, nil
}

var detectionPattern = regexp.MustCompile(`auto-detected language:\s*([a-z]{2,3})\s*\(p\s*=\s*([0-9.]+)\)`)

// DetectLanguage identifies the dominant spoken language in the clip.
func (c *CLI) DetectLanguage(ctx context.Context, clip []byte) (Detection, error) {
	wavPath, cleanup, err := c.stage(clip)
	if err != nil {
		return Detection{}, err
	}
	defer cleanup()

	args := c.baseArgs(wavPath)
	args = append(args, "--detect-language")

	output, err := c.run(ctx, args)
	if err != nil {
		return Detection{}, err
	}
	return parseDetection(output)
}

// Transcribe converts the clip to text. Clips below the minimum size return
// an empty transcription without invoking the model. lang may be empty to
// let whisper pick.
func (c *CLI) Transcribe(ctx context.Context, clip []byte, lang string) (string, error) {
	if len(clip) < c.minClipBytes {
		c.logger.Debug("clip too small to transcribe", logging.Int("bytes", len(clip)))
		return "", nil
	}

	wavPath, cleanup, err := c.stage(clip)
	if err != nil {
		return "", err
	}
	defer cleanup()

	args := c.baseArgs(wavPath)
	if lang = strings.TrimSpace(lang); lang != "" {
		args = append(args, "-l", lang)
	}
	// Conservative decoding settings to curb hallucinated output on
	// low-speech audio.
	args = append(args,
		"--beam-size", "5",
		"--temperature", "0",
		"--logprob-thold", "-0.2",
		"--entropy-thold", "1.8",
		"--no-context",
		"--no-timestamps",
	)

	output, err := c.run(ctx, args)
	if err != nil {
		return "", err
	}
	return parseTranscription(output), nil
}

func (c *CLI) baseArgs(wavPath string) []string {
	args := []string{"-m", c.modelPath, "-f", wavPath}
	if c.threads > 0 {
		args = append(args, "-t", strconv.Itoa(c.threads))
	}
	return args
}

func (c *CLI) run(ctx context.Context, args []string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := exec.CommandContext(ctx, c.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("whisper: %w: %s", err, tail(string(output), 400))
	}
	return string(output), nil
}

// stage writes the clip to a WAV file in the work directory. The returned
// cleanup removes it unless file retention is enabled.
func (c *CLI) stage(clip []byte) (string, func(), error) {
	path := filepath.Join(c.workDir, fmt.Sprintf("clip-%s.wav", uuid.NewString()[:8]))
	file, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("stage clip: %w", err)
	}
	if err := WriteWAV(file, clip); err != nil {
		file.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("stage clip: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("stage clip: %w", err)
	}
	cleanup := func() {
		if c.keepFiles {
			c.logger.Debug("retaining staged clip", logging.String("path", path))
			return
		}
		os.Remove(path)
	}
	return path, cleanup, nil
}

func parseDetection(output string) (Detection, error) {
	match := detectionPattern.FindStringSubmatch(output)
	if match == nil {
		return Detection{}, fmt.Errorf("whisper: no language detection in output: %s", tail(output, 200))
	}
	confidence, err := strconv.ParseFloat(match[2], 64)
	if err != nil {
		return Detection{}, fmt.Errorf("whisper: parse confidence %q: %w", match[2], err)
	}
	return Detection{Language: match[1], Confidence: confidence}, nil
}

// parseTranscription keeps the spoken text lines and discards whisper's
// own progress and timing chatter.
func parseTranscription(output string) string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "whisper_") || strings.HasPrefix(trimmed, "main:") ||
			strings.HasPrefix(trimmed, "system_info:") || strings.HasPrefix(trimmed, "ggml_") {
			continue
		}
		lines = append(lines, trimmed)
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
