// Package vad filters PCM audio through WebRTC voice activity detection.
//
// The filter splits a clip into fixed-size frames, keeps the voiced ones, and
// reports the voiced fraction so callers can discard samples that are mostly
// silence or music. Frame classification errors fail open: an unclassifiable
// frame is treated as voiced rather than thrown away.
package vad
