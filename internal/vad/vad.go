package vad

import (
	"fmt"

	"langprobe/internal/media/pcm"
)

// Classifier decides whether a single PCM frame contains speech.
type Classifier interface {
	Process(sampleRate int, frame []byte) (bool, error)
}

// Filter applies frame-level voice activity detection to PCM clips.
type Filter struct {
	classifier       Classifier
	frameBytes       int
	minVoicedPercent float64
}

// Result is the outcome of filtering one clip.
type Result struct {
	// Voiced is the concatenation of frames classified as speech. Nil when
	// the clip was rejected.
	Voiced []byte
	// VoicedPercent is the share of frames classified as speech, 0-100.
	VoicedPercent float64
	// Accepted reports whether the clip met the voiced threshold.
	Accepted bool
}

// New builds a Filter backed by WebRTC VAD. Aggressiveness ranges 0-3,
// frameMs must be 10, 20, or 30.
func New(aggressiveness, frameMs, minVoicedPercent int) (*Filter, error) {
	if aggressiveness < 0 || aggressiveness > 3 {
		return nil, fmt.Errorf("vad: aggressiveness %d out of range 0-3", aggressiveness)
	}
	switch frameMs {
	case 10, 20, 30:
	default:
		return nil, fmt.Errorf("vad: frame size %dms not supported", frameMs)
	}
	classifier, err := newProcessor(aggressiveness)
	if err != nil {
		return nil, fmt.Errorf("vad: %w", err)
	}
	return NewWithClassifier(classifier, frameMs, minVoicedPercent), nil
}

// NewWithClassifier builds a Filter around an existing frame classifier.
func NewWithClassifier(classifier Classifier, frameMs, minVoicedPercent int) *Filter {
	return &Filter{
		classifier:       classifier,
		frameBytes:       pcm.SampleRate / 1000 * frameMs * pcm.BytesPerSample,
		minVoicedPercent: float64(minVoicedPercent),
	}
}

// Apply filters the clip frame by frame. A trailing partial frame is dropped.
// Frames the classifier cannot process count as voiced.
func (f *Filter) Apply(clip []byte) Result {
	total := len(clip) / f.frameBytes
	if total == 0 {
		return Result{}
	}

	voiced := make([]byte, 0, len(clip))
	voicedFrames := 0
	for i := 0; i < total; i++ {
		frame := clip[i*f.frameBytes : (i+1)*f.frameBytes]
		isSpeech, err := f.classifier.Process(pcm.SampleRate, frame)
		if err != nil {
			isSpeech = true
		}
		if isSpeech {
			voicedFrames++
			voiced = append(voiced, frame...)
		}
	}

	percent := float64(voicedFrames) / float64(total) * 100
	if percent < f.minVoicedPercent {
		return Result{VoicedPercent: percent}
	}
	return Result{Voiced: voiced, VoicedPercent: percent, Accepted: true}
}
