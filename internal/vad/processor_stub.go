//go:build !cgo

package vad

import "errors"

func newProcessor(aggressiveness int) (Classifier, error) {
	return nil, errors.New("webrtcvad unavailable (cgo disabled)")
}
