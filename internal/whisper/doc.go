// Package whisper runs spoken language identification and transcription
// through the whisper.cpp command line interface.
//
// The CLI type stages PCM clips as WAV files, invokes the binary, and parses
// its output. Inference is serialized behind a mutex since whisper.cpp
// saturates the CPU on its own; callers may still extract and filter audio
// concurrently.
package whisper
