package vad

import (
	"bytes"
	"errors"
	"testing"

	"langprobe/internal/media/pcm"
)

type stubClassifier struct {
	// decide maps the frame index to the classification.
	decide func(index int) (bool, error)
	calls  int
}

func (s *stubClassifier) Process(sampleRate int, frame []byte) (bool, error) {
	if sampleRate != pcm.SampleRate {
		return false, errors.New("unexpected sample rate")
	}
	result, err := s.decide(s.calls)
	s.calls++
	return result, err
}

const frameMs = 30

// frameBytes mirrors the filter's 30ms frame size at 16 kHz mono s16le.
const frameBytes = pcm.SampleRate / 1000 * frameMs * pcm.BytesPerSample

func TestApplyAllVoiced(t *testing.T) {
	classifier := &stubClassifier{decide: func(int) (bool, error) { return true, nil }}
	filter := NewWithClassifier(classifier, frameMs, 10)

	clip := bytes.Repeat([]byte{1, 2}, frameBytes*10/2)
	result := filter.Apply(clip)

	if !result.Accepted {
		t.Fatal("fully voiced clip should be accepted")
	}
	if result.VoicedPercent != 100 {
		t.Errorf("VoicedPercent = %v, want 100", result.VoicedPercent)
	}
	if !bytes.Equal(result.Voiced, clip) {
		t.Error("voiced output should equal the input when every frame is speech")
	}
}

func TestApplyAllSilent(t *testing.T) {
	classifier := &stubClassifier{decide: func(int) (bool, error) { return false, nil }}
	filter := NewWithClassifier(classifier, frameMs, 10)

	result := filter.Apply(make([]byte, frameBytes*10))

	if result.Accepted {
		t.Fatal("silent clip should be rejected")
	}
	if result.VoicedPercent != 0 {
		t.Errorf("VoicedPercent = %v, want 0", result.VoicedPercent)
	}
	if result.Voiced != nil {
		t.Error("rejected clip should carry no voiced audio")
	}
}

func TestApplyBelowThreshold(t *testing.T) {
	// 1 voiced frame of 20 is 5%, below a 10% threshold.
	classifier := &stubClassifier{decide: func(index int) (bool, error) { return index == 0, nil }}
	filter := NewWithClassifier(classifier, frameMs, 10)

	result := filter.Apply(make([]byte, frameBytes*20))

	if result.Accepted {
		t.Fatal("clip below voiced threshold should be rejected")
	}
	if result.VoicedPercent != 5 {
		t.Errorf("VoicedPercent = %v, want 5", result.VoicedPercent)
	}
}

func TestApplyClassifierErrorFailsOpen(t *testing.T) {
	classifier := &stubClassifier{decide: func(int) (bool, error) { return false, errors.New("boom") }}
	filter := NewWithClassifier(classifier, frameMs, 10)

	clip := make([]byte, frameBytes*4)
	result := filter.Apply(clip)

	if !result.Accepted {
		t.Fatal("classifier errors should fail open and keep the clip")
	}
	if result.VoicedPercent != 100 {
		t.Errorf("VoicedPercent = %v, want 100", result.VoicedPercent)
	}
	if len(result.Voiced) != len(clip) {
		t.Errorf("len(Voiced) = %d, want %d", len(result.Voiced), len(clip))
	}
}

func TestApplyDropsTrailingPartialFrame(t *testing.T) {
	classifier := &stubClassifier{decide: func(int) (bool, error) { return true, nil }}
	filter := NewWithClassifier(classifier, frameMs, 10)

	result := filter.Apply(make([]byte, frameBytes*3+frameBytes/2))

	if classifier.calls != 3 {
		t.Errorf("classifier calls = %d, want 3 (partial frame dropped)", classifier.calls)
	}
	if len(result.Voiced) != frameBytes*3 {
		t.Errorf("len(Voiced) = %d, want %d", len(result.Voiced), frameBytes*3)
	}
}

func TestApplyTooShortClip(t *testing.T) {
	classifier := &stubClassifier{decide: func(int) (bool, error) { return true, nil }}
	filter := NewWithClassifier(classifier, frameMs, 10)

	result := filter.Apply(make([]byte, frameBytes-1))

	if result.Accepted {
		t.Error("clip shorter than one frame should be rejected")
	}
	if classifier.calls != 0 {
		t.Errorf("classifier calls = %d, want 0", classifier.calls)
	}
}

func TestNewValidatesParameters(t *testing.T) {
	if _, err := New(5, 30, 10); err == nil {
		t.Error("expected error for aggressiveness out of range")
	}
	if _, err := New(2, 25, 10); err == nil {
		t.Error("expected error for unsupported frame size")
	}
}
