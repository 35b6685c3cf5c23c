//go:build cgo

package vad

import "github.com/visvasity/webrtcvad"

func newProcessor(aggressiveness int) (Classifier, error) {
	vad, err := webrtcvad.New()
	if err != nil {
		return nil, err
	}
	// WebRTC VAD modes: 0 (quality) .. 3 (aggressive).
	if err := vad.SetMode(aggressiveness); err != nil {
		return nil, err
	}
	return vad, nil
}
