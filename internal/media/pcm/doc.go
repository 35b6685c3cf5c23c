// Package pcm extracts mono 16 kHz signed 16-bit audio clips from media
// files via ffmpeg, streamed over stdout so no intermediate file is written.
package pcm
